package wfc

import (
	"fmt"
	"slices"
)

const (
	DefaultMaxSteps  = 1000
	DefaultMaxCycles = 10
)

// cell domains are replaced, never mutated in place, so snapshots may
// share backing arrays with the live grid.
type cell struct {
	domain    []Option
	collapsed bool
}

type decision struct {
	snapshot []cell
	x, y     int
	value    Option
}

// Stats counts the work done by the last Collapse.
type Stats struct {
	Steps          int
	Contradictions int
	Backtracks     int
	Restarts       int
}

// Solver holds a width x height grid of cell domains over a catalog.
// It is not safe for concurrent use.
type Solver struct {
	width, height int
	cat           *Catalog
	all           []Option

	cells   []cell
	history []decision
	stats   Stats

	maxSteps  int
	maxCycles int
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithBudget sets the steps allowed per cycle and the number of cycles
// before Collapse gives up. Non-positive values keep the defaults.
func WithBudget(steps, cycles int) SolverOption {
	return func(s *Solver) {
		if steps > 0 {
			s.maxSteps = steps
		}
		if cycles > 0 {
			s.maxCycles = cycles
		}
	}
}

// NewSolver creates a solver with every cell open to the whole catalog.
func NewSolver(width, height int, cat *Catalog, opts ...SolverOption) (*Solver, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w (was %dx%d)", ErrInvalidSize, width, height)
	}
	if cat == nil {
		return nil, fmt.Errorf("wfc: nil catalog")
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		width:     width,
		height:    height,
		cat:       cat,
		all:       slices.Clone(cat.All),
		cells:     make([]cell, width*height),
		maxSteps:  DefaultMaxSteps,
		maxCycles: DefaultMaxCycles,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s, nil
}

// Reset reopens every cell and clears the decision history.
func (s *Solver) Reset() {
	for i := range s.cells {
		s.cells[i] = cell{domain: s.all}
	}
	clear(s.history)
	s.history = s.history[:0]
	s.stats = Stats{}
}

// Width returns the grid width in cells.
func (s *Solver) Width() int { return s.width }

// Height returns the grid height in cells.
func (s *Solver) Height() int { return s.height }

// Catalog returns the rule catalog the solver was built with.
func (s *Solver) Catalog() *Catalog { return s.cat }

// Stats returns the counters accumulated since the last Reset.
func (s *Solver) Stats() Stats { return s.stats }

// HistoryLen returns the number of decisions that can still be undone.
func (s *Solver) HistoryLen() int { return len(s.history) }

func (s *Solver) inRange(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *Solver) at(x, y int) *cell {
	return &s.cells[y*s.width+x]
}

// SetCell forces the cell to v, marks it collapsed and propagates the
// consequences to its neighbours.
func (s *Solver) SetCell(x, y int, v Option) error {
	if !s.inRange(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, x, y)
	}
	if !s.cat.Contains(v) {
		return fmt.Errorf("%w: %d", ErrUnknownOption, v)
	}
	s.force(x, y, v)
	return nil
}

// Constrain replaces the cell's domain without collapsing it and without
// propagating.
func (s *Solver) Constrain(x, y int, domain []Option) error {
	if !s.inRange(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, x, y)
	}
	for _, v := range domain {
		if !s.cat.Contains(v) {
			return fmt.Errorf("%w: %d", ErrUnknownOption, v)
		}
	}
	s.at(x, y).domain = slices.Clone(domain)
	return nil
}

// Cell returns the cell's value once its domain has shrunk to one option.
// Out-of-range coordinates report false.
func (s *Solver) Cell(x, y int) (Option, bool) {
	if !s.inRange(x, y) {
		return 0, false
	}
	d := s.at(x, y).domain
	if len(d) != 1 {
		return 0, false
	}
	return d[0], true
}

// Domain returns a copy of the options still open for the cell.
func (s *Solver) Domain(x, y int) []Option {
	if !s.inRange(x, y) {
		return nil
	}
	return slices.Clone(s.at(x, y).domain)
}

// Collapsed reports whether the cell was explicitly resolved.
func (s *Solver) Collapsed(x, y int) bool {
	if !s.inRange(x, y) {
		return false
	}
	return s.at(x, y).collapsed
}

func (s *Solver) force(x, y int, v Option) {
	c := s.at(x, y)
	c.collapsed = true
	c.domain = []Option{v}
	s.propagate(x, y)
}

// propagate narrows the neighbours of a single-valued cell to what its
// rules allow, recursing into any neighbour that becomes single-valued.
func (s *Solver) propagate(x, y int) {
	v, ok := s.Cell(x, y)
	if !ok {
		return
	}
	rules := s.cat.Rules[v]
	for d := Up; d <= Right; d++ {
		s.reduce(x+offsets[d][0], y+offsets[d][1], rules.Toward(d))
	}
}

func (s *Solver) reduce(x, y int, allowed []Option) {
	if !s.inRange(x, y) {
		return
	}
	c := s.at(x, y)
	wasOpen := len(c.domain) != 1

	kept := make([]Option, 0, len(c.domain))
	for _, o := range c.domain {
		if slices.Contains(allowed, o) {
			kept = append(kept, o)
		}
	}
	c.domain = kept

	if wasOpen && len(kept) == 1 {
		s.propagate(x, y)
	}
}

func (s *Solver) snapshot() []cell {
	return slices.Clone(s.cells)
}
