package kv

// Staged buffers writes on top of a base store. Reads see the overlay first,
// so a call observes its own uncommitted writes. Nothing reaches the base
// store until Commit; an aborted call simply drops the overlay.
type Staged struct {
	base Store
	ops  []Op
	idx  map[string]int // key -> position in ops, latest write wins in place
}

func NewStaged(base Store) *Staged {
	return &Staged{
		base: base,
		idx:  make(map[string]int),
	}
}

func (s *Staged) Get(key string) ([]byte, bool, error) {
	if i, ok := s.idx[key]; ok {
		op := s.ops[i]
		if op.Remove {
			return nil, false, nil
		}
		out := make([]byte, len(op.Value))
		copy(out, op.Value)
		return out, true, nil
	}
	return s.base.Get(key)
}

func (s *Staged) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.record(Op{Key: key, Value: stored})
	return nil
}

func (s *Staged) Remove(key string) error {
	s.record(Op{Key: key, Remove: true})
	return nil
}

func (s *Staged) record(op Op) {
	if i, ok := s.idx[op.Key]; ok {
		s.ops[i] = op
		return
	}
	s.idx[op.Key] = len(s.ops)
	s.ops = append(s.ops, op)
}

// Pending reports how many keys the overlay would write.
func (s *Staged) Pending() int {
	return len(s.ops)
}

// Commit pushes the buffered ops to the base store in write order. Stores
// that implement Batcher get all ops as one unit.
func (s *Staged) Commit() error {
	if len(s.ops) == 0 {
		return nil
	}
	if batcher, ok := s.base.(Batcher); ok {
		if err := batcher.ApplyBatch(s.ops); err != nil {
			return err
		}
		s.Discard()
		return nil
	}
	for _, op := range s.ops {
		var err error
		if op.Remove {
			err = s.base.Remove(op.Key)
		} else {
			err = s.base.Set(op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	s.Discard()
	return nil
}

// Discard drops all buffered writes.
func (s *Staged) Discard() {
	s.ops = nil
	s.idx = make(map[string]int)
}
