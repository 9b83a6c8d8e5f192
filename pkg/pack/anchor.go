package pack

// anchorIter lazily produces anchor offsets within buf[start:end). An anchor
// is the offset of the oldest byte of a 48-byte window whose rolling hash
// satisfies hash&mask == mask. The hash consumes one byte per step as
// h = h<<1 ^ b, and the check happens before the next byte is inserted, so
// the first candidate offset is start and the last is end-WindowBytes-1.
type anchorIter struct {
	buf   []byte
	end   int
	mask  uint64
	hash  uint64
	pos   int
	valid bool
}

// newAnchorIter primes the window with the first 48 bytes of the range.
// An invalid range, or a disabled chunker, yields an iterator that produces
// nothing.
func (p *PackChunking) newAnchorIter(buf []byte, start, end int) anchorIter {
	if p.maskValue == 0 || start < 0 || end > len(buf) || end-start < WindowBytes {
		return anchorIter{}
	}

	var hash uint64
	for i := start; i < start+WindowBytes; i++ {
		hash = (hash << 1) ^ uint64(buf[i])
	}
	return anchorIter{
		buf:   buf,
		end:   end,
		mask:  p.maskValue,
		hash:  hash,
		pos:   start + WindowBytes,
		valid: true,
	}
}

func (it *anchorIter) next() (int, bool) {
	if !it.valid {
		return 0, false
	}
	for it.pos < it.end {
		anchor := -1
		if it.hash&it.mask == it.mask {
			anchor = it.pos - WindowBytes
		}
		it.hash = (it.hash << 1) ^ uint64(it.buf[it.pos])
		it.pos++
		if anchor >= 0 {
			return anchor, true
		}
	}
	return 0, false
}

// GetAnchors returns all anchor offsets in buf[start:end), in order. Returns
// nil when the range is shorter than the window or otherwise invalid.
func (p *PackChunking) GetAnchors(buf []byte, start, end int) []int {
	it := p.newAnchorIter(buf, start, end)
	if !it.valid {
		return nil
	}
	var anchors []int
	for {
		a, ok := it.next()
		if !ok {
			return anchors
		}
		anchors = append(anchors, a)
	}
}

// AnchorCount counts the anchors in buf without materializing them.
func (p *PackChunking) AnchorCount(buf []byte) int {
	it := p.newAnchorIter(buf, 0, len(buf))
	count := 0
	for {
		if _, ok := it.next(); !ok {
			return count
		}
		count++
	}
}
