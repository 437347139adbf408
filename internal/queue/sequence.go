package queue

import "sync/atomic"

// Sequencer hands out purchase sequence numbers starting at 1.
type Sequencer struct{ n atomic.Uint64 }

func (s *Sequencer) Next() uint64 { return s.n.Add(1) }
