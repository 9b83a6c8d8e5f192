package internal

import (
	"errors"
)

var (
	ErrInvalidMaskBits  = errors.New("mask bits out of range")
	ErrInvalidBlockSize = errors.New("block size must be positive and exceed the max chunk size plus window")
	ErrInvalidDigest    = errors.New("unknown digest algorithm")
	ErrNotDirectory     = errors.New("not a directory")
)
