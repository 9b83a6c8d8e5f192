// Package pack implements PACK content-defined chunking: a rolling-hash
// anchor detector over a 48-byte sliding window, paired with min/max chunk
// bounds and a 64-bit chunk code that combines a truncated cryptographic
// digest with the chunk length.
//
// The idea behind PACK chunking is to hold the entire sliding window in a
// single 64-bit hash state. The state is compared with a predetermined mask
// chosen so that each of the recent window bytes participates in the
// comparison and each mask bit covers exactly 8 bytes. This is why the right
// most 7 bits are not part of the mask, as well as the left most 7 bits.
// For more details, see "The Power of Prediction: Cloud Bandwidth and Cost
// Reduction", SIGCOMM 2011.
package pack

import (
	"github.com/zhengshuai-xiao/PackSim/internal"
)

const (
	// MinMaskBits is the smallest supported mask (expected chunk ~64 bytes).
	MinMaskBits = 6
	// MaxMaskBits is the largest supported mask (expected chunk ~32K bytes).
	MaxMaskBits = 15

	// WindowBytes is the size of the sliding window.
	WindowBytes = 48

	minChunkDivider = 4
	maxChunkFactor  = 4
)

// maskValues maps maskBits to the pre-selected mask constant. For each entry
// exactly maskBits bits lie within word positions 8..56, spaced so that every
// byte of the 48-byte window is represented.
var maskValues = map[int]uint64{
	6:  0x0000001010482080,
	7:  0x0000081010482080,
	8:  0x0000821010482080,
	9:  0x0000821110482080,
	10: 0x0000823110482080,
	11: 0x00008A3110482080,
	12: 0x00008A3110483080,
	13: 0x00008A3110583080,
	14: 0x00008A3110583280,
	15: 0x00008A3114583280,
}

// PackChunking holds the chunking parameters derived from a mask-bits choice.
// The zero value is permanently disabled: it emits no anchors and no chunks.
type PackChunking struct {
	maskBits  int
	maskValue uint64
	digest    DigestAlgo

	minChunkSize int
	maxChunkSize int
	avgChunkSize int
}

// New returns a chunker for the given number of mask bits, fingerprinting
// chunks with SHA-1.
func New(maskBits int) (*PackChunking, error) {
	return NewWithDigest(maskBits, DigestSHA1)
}

// NewWithDigest is New with an explicit digest algorithm. The algorithm is
// fixed for the lifetime of the chunker: changing it between runs changes the
// dedup namespace.
func NewWithDigest(maskBits int, digest DigestAlgo) (*PackChunking, error) {
	mask, ok := maskValues[maskBits]
	if !ok {
		return nil, internal.ErrInvalidMaskBits
	}
	if digest != DigestSHA1 && digest != DigestMD5 {
		return nil, internal.ErrInvalidDigest
	}

	return &PackChunking{
		maskBits:     maskBits,
		maskValue:    mask,
		digest:       digest,
		minChunkSize: (1 << maskBits) / minChunkDivider,
		maxChunkSize: (1 << maskBits) * maxChunkFactor,
		avgChunkSize: (1 << maskBits) + (1<<maskBits)/minChunkDivider,
	}, nil
}

func (p *PackChunking) MaskBits() int { return p.maskBits }

func (p *PackChunking) MinChunkSize() int { return p.minChunkSize }

func (p *PackChunking) MaxChunkSize() int { return p.maxChunkSize }

// AvgChunkSize is the nominal average 2^maskBits + minChunkSize. The cut-off
// at the maximum also influences the real average, but this is close enough
// when the maximum is high.
func (p *PackChunking) AvgChunkSize() int { return p.avgChunkSize }

// ExpectedAnchorCount estimates the number of anchors in a buffer of the
// given size, ignoring the min/max chunk limits. Accounts for the trailing
// window positions that cannot hold anchors.
func (p *PackChunking) ExpectedAnchorCount(bufferSize int) int {
	if bufferSize < WindowBytes || p.maskBits == 0 {
		return 0
	}
	return (bufferSize - WindowBytes + 1) >> p.maskBits
}

// ExpectedChunkCount estimates the number of chunks in a buffer of the given
// size, honoring the minimal chunk size but not the maximal.
func (p *PackChunking) ExpectedChunkCount(bufferSize int) int {
	if bufferSize < WindowBytes || p.maskBits == 0 {
		return 0
	}
	return (bufferSize - WindowBytes + 1) / p.avgChunkSize
}
