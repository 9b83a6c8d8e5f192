package dedup

import (
	"fmt"
	"io"

	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

// Location is one place a chunk code was observed.
type Location struct {
	File   string
	Offset int64
}

// ChunkIndex maps each chunk code to the set of locations where it occurred.
// Diagnostic only: it holds no references to file contents.
type ChunkIndex struct {
	chunks map[pack.ChunkCode]map[Location]struct{}
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{chunks: make(map[pack.ChunkCode]map[Location]struct{})}
}

// AddFile records the location of every chunk of a file, advancing a byte
// cursor by each code's length. Returns the number of codes that were not in
// the index before; duplicates within the file are counted once.
func (x *ChunkIndex) AddFile(file string, codes []pack.ChunkCode) int {
	if file == "" || len(codes) == 0 {
		return 0
	}

	newChunks := 0
	var offset int64
	for _, c := range codes {
		locations, ok := x.chunks[c]
		if !ok {
			locations = make(map[Location]struct{})
			x.chunks[c] = locations
			newChunks++
		}
		locations[Location{File: file, Offset: offset}] = struct{}{}
		offset += int64(c.Len())
	}
	return newChunks
}

// Locations returns the recorded locations of a chunk code, or nil.
func (x *ChunkIndex) Locations(c pack.ChunkCode) []Location {
	locations := x.chunks[c]
	if len(locations) == 0 {
		return nil
	}
	result := make([]Location, 0, len(locations))
	for loc := range locations {
		result = append(result, loc)
	}
	return result
}

// OverlapBytes is the number of bytes of the given chunk list whose codes are
// already present in the index.
func (x *ChunkIndex) OverlapBytes(codes []pack.ChunkCode) int64 {
	var result int64
	for _, c := range codes {
		if _, ok := x.chunks[c]; ok {
			result += int64(c.Len())
		}
	}
	return result
}

// PrintOverlaps walks a chunk list and prints every indexed location of every
// overlapping code, stopping after maxChunksToPrint overlapping codes. Prints
// nothing at all when no code of the list overlaps the index.
func (x *ChunkIndex) PrintOverlaps(w io.Writer, codes []pack.ChunkCode, maxChunksToPrint int) {
	if len(codes) == 0 || x.OverlapBytes(codes) == 0 {
		return
	}

	fmt.Fprintln(w, "    serial  hash         size    offset1   offset2   file2")
	fmt.Fprintln(w, "    ------- ------------ ------- --------- --------- -------------------")

	var offset int64
	for serial, c := range codes {
		locations := x.chunks[c]
		if len(locations) > 0 {
			if maxChunksToPrint <= 0 {
				fmt.Fprintln(w, "   ...")
				return
			}
			for loc := range locations {
				fmt.Fprintf(w, "    %7d %s %9d %9d %s\n", serial+1, c.String(), offset, loc.Offset, loc.File)
			}
			maxChunksToPrint--
		}
		offset += int64(c.Len())
	}
}
