package store

// snapshot iterates over items copied out of the tree when the iterator was
// created.
type snapshot struct {
	items []setItem
	pos   int
}

var _ Iterator = (*snapshot)(nil)

func (s *snapshot) Valid() bool {
	return s.pos < len(s.items)
}

func (s *snapshot) Next() {
	s.mustBeValid()
	s.pos++
}

func (s *snapshot) Key() []byte {
	s.mustBeValid()
	return s.items[s.pos].key
}

func (s *snapshot) Value() []byte {
	s.mustBeValid()
	return s.items[s.pos].value
}

func (s *snapshot) Close() {
	s.items = nil
}

func (s *snapshot) mustBeValid() {
	if !s.Valid() {
		panic("iterator is not valid")
	}
}

// PrefixEnd returns the first key that does not start with given prefix. Use
// it as the exclusive end of an iterator that should visit all keys with
// that prefix. Returns nil if there is no such key.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
