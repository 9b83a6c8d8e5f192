// Package dedup consumes per-file chunk code sequences and computes
// self-dedup and cross-file dedup statistics, plus a diagnostic index of
// chunk locations.
package dedup

import (
	"path/filepath"

	"github.com/zhengshuai-xiao/PackSim/internal"
	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

// FileResult is the per-file report line of the estimator.
type FileResult struct {
	Serial int
	Path   string
	Name   string
	Size   int64
	Chunks int
	// ChunkBytes is the number of bytes covered by chunks; it can fall short
	// of Size when a trailing remnant was dropped.
	ChunkBytes int64
	// SelfBytes counts bytes of chunks repeated earlier in the same file.
	SelfBytes int64
	// GlobalBytes counts bytes of chunks first seen in a previous file.
	GlobalBytes int64
	// DedupRatio is (SelfBytes+GlobalBytes)*100/Size.
	DedupRatio float64
}

// AvgChunk is the reference average: file size over chunk count, which also
// charges un-chunked trailing bytes to the chunks.
func (r *FileResult) AvgChunk() int64 {
	if r.Chunks == 0 {
		return 0
	}
	return r.Size / int64(r.Chunks)
}

// RealAvgChunk is the exact average: chunk-covered bytes over chunk count.
func (r *FileResult) RealAvgChunk() int64 {
	if r.Chunks == 0 {
		return 0
	}
	return r.ChunkBytes / int64(r.Chunks)
}

// Totals accumulates across all files seen by an Estimator.
type Totals struct {
	Size        int64
	Chunks      int64
	ChunkBytes  int64
	SelfBytes   int64
	GlobalBytes int64
}

func (t *Totals) DedupRatio() float64 {
	if t.Size <= 0 {
		return 0
	}
	return float64(t.SelfBytes+t.GlobalBytes) * 100.0 / float64(t.Size)
}

func (t *Totals) AvgChunk() int64 {
	if t.Chunks == 0 {
		return 0
	}
	return t.Size / t.Chunks
}

func (t *Totals) RealAvgChunk() int64 {
	if t.Chunks == 0 {
		return 0
	}
	return t.ChunkBytes / t.Chunks
}

// Estimator classifies each file's chunks against earlier chunks of the same
// file (self) and against all chunks of previously completed files (global).
// The classification is order-dependent by design: callers must feed files in
// sorted-path order for reproducible reports.
type Estimator struct {
	global *internal.UInt64Set
	serial int
	totals Totals
}

func NewEstimator() *Estimator {
	return &Estimator{global: internal.NewUInt64Set()}
}

// AddFile consumes one file's ordered chunk codes and returns its report
// line. A chunk repeated within the file counts as self even when it is also
// globally known; its first in-file occurrence still counts as global if a
// previous file had it. The global set absorbs the file's codes only after
// the whole file is classified.
func (e *Estimator) AddFile(path string, size int64, codes []pack.ChunkCode) FileResult {
	seen := internal.NewUInt64Set()
	var selfBytes, globalBytes, chunkBytes int64

	for _, c := range codes {
		chunkLen := int64(c.Len())
		chunkBytes += chunkLen
		if seen.Contains(uint64(c)) {
			selfBytes += chunkLen
			continue
		}
		seen.Add(uint64(c))
		if e.global.Contains(uint64(c)) {
			globalBytes += chunkLen
		}
	}

	for _, c := range codes {
		e.global.Add(uint64(c))
	}

	e.serial++
	e.totals.Size += size
	e.totals.Chunks += int64(len(codes))
	e.totals.ChunkBytes += chunkBytes
	e.totals.SelfBytes += selfBytes
	e.totals.GlobalBytes += globalBytes

	ratio := 0.0
	if size > 0 {
		ratio = float64(selfBytes+globalBytes) * 100.0 / float64(size)
	}

	return FileResult{
		Serial:      e.serial,
		Path:        path,
		Name:        filepath.Base(path),
		Size:        size,
		Chunks:      len(codes),
		ChunkBytes:  chunkBytes,
		SelfBytes:   selfBytes,
		GlobalBytes: globalBytes,
		DedupRatio:  ratio,
	}
}

// Totals returns the running totals over all files added so far.
func (e *Estimator) Totals() Totals {
	return e.totals
}

// GlobalChunks is the number of distinct chunk codes seen so far.
func (e *Estimator) GlobalChunks() int {
	return e.global.Len()
}
