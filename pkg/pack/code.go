package pack

import (
	"crypto/md5"
	"crypto/sha1"
	"fmt"

	"github.com/zhengshuai-xiao/PackSim/internal"
)

// DigestAlgo selects the cryptographic digest used to fingerprint chunks.
type DigestAlgo int

const (
	DigestSHA1 DigestAlgo = iota
	DigestMD5
)

var digestNames = map[string]DigestAlgo{
	"sha1": DigestSHA1,
	"md5":  DigestMD5,
}

// ParseDigestAlgo maps "sha1" or "md5" to a DigestAlgo.
func ParseDigestAlgo(name string) (DigestAlgo, error) {
	algo, ok := digestNames[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, internal.ErrInvalidDigest)
	}
	return algo, nil
}

func (d DigestAlgo) String() string {
	if d == DigestMD5 {
		return "md5"
	}
	return "sha1"
}

const (
	chunkDigestBits = 45
	chunkDigestMask = 0x00001FFFFFFFFFFF
	chunkLenMask    = 0x7FFFF
)

// ChunkCode names a chunk for equality tests: the low 45 bits hold the
// truncated digest of the chunk's bytes and the next 19 bits hold the chunk
// length, so equal codes mean equal (digest, length) pairs.
type ChunkCode uint64

// NewChunkCode packs a truncated digest and a chunk length into a code.
// Lengths at or above 2^19 are unrepresentable; the defined mask-bits range
// caps chunks at 2^17 bytes, so hitting the bound means a cutter bug.
func NewChunkCode(digest uint64, chunkLen int) ChunkCode {
	if chunkLen < 0 || chunkLen > chunkLenMask {
		panic(fmt.Sprintf("chunk length %d out of range", chunkLen))
	}
	return ChunkCode(uint64(chunkLen)<<chunkDigestBits | digest&chunkDigestMask)
}

// Len returns the chunk's length in bytes.
func (c ChunkCode) Len() int {
	return int((uint64(c) >> chunkDigestBits) & chunkLenMask)
}

// Digest returns the truncated 45-bit digest.
func (c ChunkCode) Digest() uint64 {
	return uint64(c) & chunkDigestMask
}

// String renders the code as 12 hex characters of digest and the length.
func (c ChunkCode) String() string {
	return fmt.Sprintf("%012x %7d", c.Digest(), c.Len())
}

// calcDigest hashes buf with the configured algorithm and folds the first
// eight digest bytes into a uint64, least significant byte first. Each call
// uses a stack-local digest context, so it is contention-free and
// deterministic.
func (p *PackChunking) calcDigest(buf []byte) uint64 {
	if p.digest == DigestMD5 {
		sum := md5.Sum(buf)
		return internal.BytesToUInt64LittleEndian(sum[:8])
	}
	sum := sha1.Sum(buf)
	return internal.BytesToUInt64LittleEndian(sum[:8])
}

// ChunkCodeOf fingerprints buf as a single chunk.
func (p *PackChunking) ChunkCodeOf(buf []byte) ChunkCode {
	return NewChunkCode(p.calcDigest(buf), len(buf))
}
