package internal

type UInt64Set struct {
	m map[uint64]struct{}
}

func NewUInt64Set() *UInt64Set {
	return &UInt64Set{
		m: make(map[uint64]struct{}),
	}
}

func (s *UInt64Set) Add(item uint64) {
	s.m[item] = struct{}{}
}

func (s *UInt64Set) Remove(item uint64) {
	delete(s.m, item)
}

func (s *UInt64Set) Contains(item uint64) bool {
	_, exists := s.m[item]
	return exists
}

func (s *UInt64Set) Len() int {
	return len(s.m)
}

func (s *UInt64Set) Elements() []uint64 {
	elements := make([]uint64, 0, len(s.m))
	for item := range s.m {
		elements = append(elements, item)
	}
	return elements
}
