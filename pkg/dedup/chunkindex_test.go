package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

func TestChunkIndexAddFile(t *testing.T) {
	x := NewChunkIndex()

	// In-file duplicates count once toward the new-code total
	added := x.AddFile("/data/a.bin", []pack.ChunkCode{code(0x1, 100), code(0x2, 200), code(0x1, 100)})
	assert.Equal(t, 2, added)

	// A second file with one known and one unknown code
	added = x.AddFile("/data/b.bin", []pack.ChunkCode{code(0x2, 200), code(0x3, 50)})
	assert.Equal(t, 1, added)

	assert.Zero(t, x.AddFile("", []pack.ChunkCode{code(0x1, 100)}))
	assert.Zero(t, x.AddFile("/data/c.bin", nil))
}

func TestChunkIndexLocations(t *testing.T) {
	x := NewChunkIndex()
	x.AddFile("/data/a.bin", []pack.ChunkCode{code(0x1, 100), code(0x2, 200), code(0x1, 100)})

	// The cursor advances by each code's length
	locations := x.Locations(code(0x1, 100))
	require.Len(t, locations, 2)
	assert.Contains(t, locations, Location{File: "/data/a.bin", Offset: 0})
	assert.Contains(t, locations, Location{File: "/data/a.bin", Offset: 300})

	locations = x.Locations(code(0x2, 200))
	require.Len(t, locations, 1)
	assert.Equal(t, Location{File: "/data/a.bin", Offset: 100}, locations[0])

	assert.Nil(t, x.Locations(code(0xFF, 10)))
}

func TestChunkIndexOverlapBytes(t *testing.T) {
	x := NewChunkIndex()
	x.AddFile("/data/a.bin", []pack.ChunkCode{code(0x1, 100), code(0x2, 200)})

	probe := []pack.ChunkCode{code(0x1, 100), code(0x3, 50), code(0x2, 200), code(0x2, 200)}
	assert.Equal(t, int64(500), x.OverlapBytes(probe))
	assert.Zero(t, x.OverlapBytes(nil))
	assert.Zero(t, x.OverlapBytes([]pack.ChunkCode{code(0x3, 50)}))
}

func TestChunkIndexPrintOverlaps(t *testing.T) {
	x := NewChunkIndex()
	x.AddFile("/data/a.bin", []pack.ChunkCode{code(0x1, 100), code(0x2, 200)})

	var sb strings.Builder
	x.PrintOverlaps(&sb, []pack.ChunkCode{code(0x3, 50), code(0x2, 200)}, 10)

	out := sb.String()
	assert.Contains(t, out, "serial  hash")
	assert.Contains(t, out, "/data/a.bin")
	// The probe's second code overlaps at probe offset 50, indexed offset 100
	assert.Contains(t, out, "50       100 /data/a.bin")
	assert.NotContains(t, out, "...")
}

func TestChunkIndexPrintOverlapsTruncation(t *testing.T) {
	x := NewChunkIndex()
	codes := []pack.ChunkCode{code(0x1, 100), code(0x2, 200), code(0x3, 50)}
	x.AddFile("/data/a.bin", codes)

	var sb strings.Builder
	x.PrintOverlaps(&sb, codes, 2)
	assert.Contains(t, sb.String(), "...")

	// Empty input prints nothing, not even the header
	sb.Reset()
	x.PrintOverlaps(&sb, nil, 10)
	assert.Empty(t, sb.String())
}

// A file with no overlapping chunks gets no report at all, headers included.
func TestChunkIndexPrintOverlapsNothingShared(t *testing.T) {
	x := NewChunkIndex()
	x.AddFile("/data/a.bin", []pack.ChunkCode{code(0x1, 100), code(0x2, 200)})

	var sb strings.Builder
	x.PrintOverlaps(&sb, []pack.ChunkCode{code(0x3, 50), code(0x4, 75)}, 10)
	assert.Empty(t, sb.String())
}
