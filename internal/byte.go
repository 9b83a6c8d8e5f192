package internal

import (
	"encoding/binary"
)

// BytesToUInt64LittleEndian folds the first eight bytes of b into a uint64,
// least significant byte first. Panics if b is shorter than eight bytes.
func BytesToUInt64LittleEndian(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func UInt64ToBytesLittleEndian(i uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return b
}
