package led

import "sync/atomic"

// Sim swallows frames and counts them, for headless runs and tests.
type Sim struct {
	frames atomic.Uint64
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) Write(rgb []byte) error {
	s.frames.Add(1)
	return nil
}

func (s *Sim) Frames() uint64 { return s.frames.Load() }

func (s *Sim) Close() error { return nil }
