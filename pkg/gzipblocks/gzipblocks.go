// Package gzipblocks rebuilds a buffer as a gzip stream whose internal
// deflate blocks align with PACK chunk boundaries. Two inputs sharing
// content-defined chunks then produce byte-identical deflate blocks for the
// shared chunks, which is the precondition for stream-level redundancy
// elimination downstream.
package gzipblocks

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

// Compress writes buf to w as a standard gzip stream (RFC 1952), terminating
// the current deflate block after every chunk via Flush. The chunk list is
// computed with tail emission, and any remaining sub-minimum remnant is
// written as one final block so that decompression reproduces buf exactly.
// Returns the number of chunks.
func Compress(p *pack.PackChunking, buf []byte, w io.Writer) (int, error) {
	codes := p.GetChunks(buf, true)

	gz := gzip.NewWriter(w)
	offset := 0
	for _, c := range codes {
		chunkLen := c.Len()
		if _, err := gz.Write(buf[offset : offset+chunkLen]); err != nil {
			gz.Close()
			return 0, fmt.Errorf("failed to write chunk: %w", err)
		}
		// This is the key trick: the block is terminated and a new block
		// will be started by the next write.
		if err := gz.Flush(); err != nil {
			gz.Close()
			return 0, fmt.Errorf("failed to flush chunk boundary: %w", err)
		}
		offset += chunkLen
	}

	if offset < len(buf) {
		if _, err := gz.Write(buf[offset:]); err != nil {
			gz.Close()
			return 0, fmt.Errorf("failed to write remnant: %w", err)
		}
	}

	if err := gz.Close(); err != nil {
		return 0, err
	}
	return len(codes), nil
}

// Decompress inflates a gzip stream produced by Compress (or any other gzip
// stream) back into memory.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
