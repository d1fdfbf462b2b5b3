package wfc

import (
	"fmt"
	"math"

	"github.com/vovakirdan/minecart/internal/random"
)

type position struct {
	x, y int
}

// entropy is a cheap ordering proxy, not Shannon entropy: the sum of
// option id times frequency over the open domain.
func (s *Solver) entropy(domain []Option) uint64 {
	var e uint64
	for _, o := range domain {
		e += uint64(o) * uint64(s.cat.Frequencies[o])
	}
	return e
}

// Step performs one unit of work. A cell with an empty domain triggers a
// backtrack. Otherwise the lowest-entropy uncollapsed cell is resolved by
// a frequency-weighted draw. done is true once no uncollapsed cell is
// left.
func (s *Solver) Step(g random.Generator) (done bool, err error) {
	s.stats.Steps++

	var (
		candidates []position
		best       uint64 = math.MaxUint64
	)
	for x := 0; x < s.width; x++ {
		for y := 0; y < s.height; y++ {
			c := s.at(x, y)
			if len(c.domain) == 0 {
				s.stats.Contradictions++
				s.backtrack()
				return false, nil
			}
			if c.collapsed {
				continue
			}
			e := s.entropy(c.domain)
			switch {
			case e < best:
				best = e
				candidates = append(candidates[:0], position{x, y})
			case e == best:
				candidates = append(candidates, position{x, y})
			}
		}
	}
	if len(candidates) == 0 {
		return true, nil
	}

	pos, err := random.Choice(g, candidates)
	if err != nil {
		return false, fmt.Errorf("wfc: pick cell: %w", err)
	}

	domain := s.at(pos.x, pos.y).domain
	weights := make([]uint32, len(domain))
	for i, o := range domain {
		weights[i] = s.cat.Frequencies[o]
	}
	value, err := random.WeightedChoice(g, domain, weights)
	if err != nil {
		return false, fmt.Errorf("wfc: pick option at (%d,%d): %w", pos.x, pos.y, err)
	}

	s.history = append(s.history, decision{
		snapshot: s.snapshot(),
		x:        pos.x,
		y:        pos.y,
		value:    value,
	})
	s.force(pos.x, pos.y, value)
	return false, nil
}

// Collapse steps until the grid resolves or the budget runs out. After
// every maxSteps non-terminal steps the grid is restarted from the state
// before the first decision; after maxCycles such cycles it fails with
// ErrExhausted, leaving partial progress in place.
func (s *Solver) Collapse(g random.Generator) (Stats, error) {
	s.stats = Stats{}
	for cycle := 1; ; cycle++ {
		for range s.maxSteps {
			done, err := s.Step(g)
			if err != nil {
				return s.stats, err
			}
			if done {
				return s.stats, nil
			}
		}
		if cycle >= s.maxCycles {
			return s.stats, ErrExhausted
		}
		s.restart()
	}
}

// backtrack undoes the latest decision and bans the value it chose. With
// no history there is nothing to undo.
func (s *Solver) backtrack() {
	if len(s.history) == 0 {
		return
	}
	last := s.history[len(s.history)-1]
	s.history[len(s.history)-1] = decision{}
	s.history = s.history[:len(s.history)-1]

	s.cells = last.snapshot
	c := s.at(last.x, last.y)
	kept := make([]Option, 0, len(c.domain))
	for _, o := range c.domain {
		if o != last.value {
			kept = append(kept, o)
		}
	}
	c.domain = kept
	s.stats.Backtracks++

	s.propagate(last.x, last.y)
}

// restart rewinds to the snapshot taken before the first decision.
func (s *Solver) restart() {
	s.stats.Restarts++
	if len(s.history) == 0 {
		return
	}
	s.cells = s.history[0].snapshot
	clear(s.history)
	s.history = s.history[:0]
}
