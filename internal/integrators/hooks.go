package integrators

import "github.com/san-kum/mdsim/internal/md"

// Hooks are called by VelocityVerlet around the drift and force evaluation.
type Hooks interface {
	PreStep(s *md.State)
	PostDrift(s *md.State)
	PostStep(s *md.State)
}

type NoHooks struct{}

func (NoHooks) PreStep(*md.State)   {}
func (NoHooks) PostDrift(*md.State) {}
func (NoHooks) PostStep(*md.State)  {}

// Chain runs several hooks. PreStep and PostDrift run in order, PostStep in
// reverse order so nested splittings stay symmetric.
type Chain []Hooks

func (c Chain) PreStep(s *md.State) {
	for _, h := range c {
		h.PreStep(s)
	}
}

func (c Chain) PostDrift(s *md.State) {
	for _, h := range c {
		h.PostDrift(s)
	}
}

func (c Chain) PostStep(s *md.State) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].PostStep(s)
	}
}
