package viewsync

// sequencer hands out monotonically increasing tickets and rejects
// completions older than the newest one applied. Guarded by the owner's
// mutex.
type sequencer struct {
	issued  uint64
	applied uint64
}

func (s *sequencer) next() uint64 {
	s.issued++
	return s.issued
}

func (s *sequencer) accept(ticket uint64) bool {
	if ticket < s.applied {
		return false
	}
	s.applied = ticket
	return true
}
