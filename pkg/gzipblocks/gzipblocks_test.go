package gzipblocks

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

func randomBytes(t *testing.T, seed int64, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	rng := rand.New(rand.NewSource(seed))
	_, err := rng.Read(data)
	require.NoError(t, err)
	return data
}

func TestCompressRoundTrip(t *testing.T) {
	p, err := pack.New(10)
	require.NoError(t, err)

	data := randomBytes(t, 1, 1024*1024)

	var out bytes.Buffer
	chunks, err := Compress(p, data, &out)
	require.NoError(t, err)
	assert.Equal(t, len(p.GetChunks(data, true)), chunks)
	assert.Positive(t, chunks)

	restored, err := Decompress(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

// Inputs below the chunking window have no chunks; the whole buffer is the
// remnant and still round-trips.
func TestCompressTinyInput(t *testing.T) {
	p, err := pack.New(10)
	require.NoError(t, err)

	data := randomBytes(t, 2, 100)

	var out bytes.Buffer
	chunks, err := Compress(p, data, &out)
	require.NoError(t, err)
	assert.Zero(t, chunks)

	restored, err := Decompress(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

func TestCompressEmptyInput(t *testing.T) {
	p, err := pack.New(10)
	require.NoError(t, err)

	var out bytes.Buffer
	chunks, err := Compress(p, nil, &out)
	require.NoError(t, err)
	assert.Zero(t, chunks)

	restored, err := Decompress(out.Bytes())
	require.NoError(t, err)
	assert.Empty(t, restored)
}

// A deflate sync flush terminates the current block with an empty stored
// block, visible in the stream as 00 00 FF FF.
var deflateSyncMarker = []byte{0x00, 0x00, 0xff, 0xff}

func countSyncMarkers(data []byte) int {
	count := 0
	for {
		idx := bytes.Index(data, deflateSyncMarker)
		if idx < 0 {
			return count
		}
		count++
		data = data[idx+len(deflateSyncMarker):]
	}
}

// syncMarkerEnd returns the offset just past the n-th sync marker, or -1.
func syncMarkerEnd(data []byte, n int) int {
	end := 0
	for i := 0; i < n; i++ {
		idx := bytes.Index(data[end:], deflateSyncMarker)
		if idx < 0 {
			return -1
		}
		end += idx + len(deflateSyncMarker)
	}
	return end
}

// Every chunk ends with a flush, so the stream must carry at least one sync
// marker per chunk.
func TestCompressFlushPerChunk(t *testing.T) {
	p, err := pack.New(8)
	require.NoError(t, err)

	data := randomBytes(t, 3, 256*1024)

	var out bytes.Buffer
	chunks, err := Compress(p, data, &out)
	require.NoError(t, err)
	require.Positive(t, chunks)

	assert.GreaterOrEqual(t, countSyncMarkers(out.Bytes()), chunks)
}

// Two inputs sharing a prefix produce byte-identical compressed streams up to
// the last chunk boundary inside the shared prefix: block alignment keeps the
// shared chunks' deflate output independent of the bytes after them.
func TestCompressSharedPrefixAlignment(t *testing.T) {
	p, err := pack.New(8)
	require.NoError(t, err)

	prefix := randomBytes(t, 4, 256*1024)
	dataA := append(append([]byte{}, prefix...), randomBytes(t, 5, 64*1024)...)
	dataB := append(append([]byte{}, prefix...), randomBytes(t, 6, 64*1024)...)

	codesA := p.GetChunks(dataA, true)
	codesB := p.GetChunks(dataB, true)

	// Number of leading chunks the two inputs share
	shared := 0
	for shared < len(codesA) && shared < len(codesB) && codesA[shared] == codesB[shared] {
		shared++
	}
	require.Greater(t, shared, 10)
	require.Less(t, shared, len(codesA))

	var outA, outB bytes.Buffer
	_, err = Compress(p, dataA, &outA)
	require.NoError(t, err)
	_, err = Compress(p, dataB, &outB)
	require.NoError(t, err)

	end := syncMarkerEnd(outA.Bytes(), shared)
	require.Positive(t, end)
	assert.Equal(t, outA.Bytes()[:end], outB.Bytes()[:end])
	assert.NotEqual(t, outA.Bytes(), outB.Bytes())
}

func TestDecompressInvalidInput(t *testing.T) {
	_, err := Decompress([]byte("not a gzip stream"))
	assert.Error(t, err)
}
