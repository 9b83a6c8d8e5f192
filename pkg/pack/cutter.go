package pack

// AppendChunks cuts buf[start:end) into chunks and appends their codes to
// codes. It assumes start is the beginning of a chunk. The returned offset is
// where processing of subsequent data should resume: bytes past it were not
// covered by any emitted chunk.
//
// An anchor is accepted as a cut only when it falls at least minChunkSize and
// at most maxChunkSize past the previous cut; closer anchors are discarded,
// and a cut is forced at maxChunkSize when the next anchor is farther (which
// guarantees progress across anchor-free regions). The trailing piece is
// emitted only when emitTail is set and it is at least minChunkSize long; a
// sub-minimum remnant is never emitted, which keeps a chunk's boundaries a
// function of the data inside it alone.
//
// Ranges shorter than the window produce no chunks.
func (p *PackChunking) AppendChunks(codes []ChunkCode, buf []byte, start, end int, emitTail bool) ([]ChunkCode, int) {
	it := p.newAnchorIter(buf, start, end)
	if !it.valid {
		return codes, start
	}

	prev := start
	cur, ok := it.next()

	for {
		// Reached end of the anchor stream, or the next anchor is too far
		if !ok || cur-prev > p.maxChunkSize {
			cut := min(prev+p.maxChunkSize, end)
			chunkLen := cut - prev
			// A too-small tail is dropped
			if chunkLen < p.minChunkSize {
				return codes, prev
			}
			// A partial tail is left for the next read unless flushing
			if chunkLen < p.maxChunkSize && !emitTail {
				return codes, prev
			}
			codes = append(codes, p.ChunkCodeOf(buf[prev:cut]))
			prev = cut
			continue
		}

		// Anchor too close: skip it and keep looking
		if cur-prev < p.minChunkSize {
			cur, ok = it.next()
			continue
		}

		codes = append(codes, p.ChunkCodeOf(buf[prev:cur]))
		prev = cur
		cur, ok = it.next()
	}
}

// GetChunks cuts the whole buffer and returns the chunk codes.
func (p *PackChunking) GetChunks(buf []byte, emitTail bool) []ChunkCode {
	codes, _ := p.AppendChunks(nil, buf, 0, len(buf), emitTail)
	return codes
}
