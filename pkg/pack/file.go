package pack

import (
	"github.com/zhengshuai-xiao/PackSim/internal"
)

var logger = internal.GetLogger("pack")

// DefaultBlockSize is the read buffer capacity used by the CLI.
const DefaultBlockSize = 1000000

// FileChunker streams files through a reusable fixed-size read buffer and
// produces the ordered chunk code sequence for each file. The chunk sequence
// is a deterministic function of the file content and the chunker parameters
// alone, for any block size accepted by NewFileChunker.
type FileChunker struct {
	pack     *PackChunking
	buf      []byte
	emitTail bool
}

// NewFileChunker validates that blockSize leaves room for at least one chunk
// boundary per read: it must exceed maxChunkSize plus the window remainder.
// When emitTail is set, the trailing chunk of each file is emitted even if it
// is shorter than the max chunk size; by default it is dropped.
func NewFileChunker(p *PackChunking, blockSize int, emitTail bool) (*FileChunker, error) {
	if blockSize <= 0 || blockSize < p.MaxChunkSize()+WindowBytes {
		return nil, internal.ErrInvalidBlockSize
	}
	return &FileChunker{
		pack:     p,
		buf:      make([]byte, blockSize),
		emitTail: emitTail,
	}, nil
}

// FileChunks returns the chunk codes of the whole file, reading it block by
// block at increasing offsets. Each block is cut without tail flushing and
// the unconsumed remainder is re-read as the head of the next block, so cuts
// never depend on block boundaries. On a read error the codes found so far
// are returned along with the error.
func (f *FileChunker) FileChunks(path string) ([]ChunkCode, error) {
	var codes []ChunkCode
	var offset int64

	for {
		n, err := internal.ReadBlockAt(path, offset, f.buf)
		if err != nil {
			logger.Warnf("read failed, dropping %s: %v", path, err)
			return codes, err
		}
		if n == 0 {
			break
		}

		var next int
		codes, next = f.pack.AppendChunks(codes, f.buf[:n], 0, n, false)

		if n < len(f.buf) {
			// Last block of the file
			if f.emitTail {
				codes, _ = f.pack.AppendChunks(codes, f.buf[:n], next, n, true)
			}
			break
		}
		if next == 0 {
			// No progress is impossible while blockSize > maxChunkSize+window,
			// but never loop on the same offset.
			break
		}
		offset += int64(next)
	}

	return codes, nil
}
