// Package wfc implements a wave-function-collapse solver over a grid of
// tile options with per-option adjacency rules, entropy-guided cell
// selection, weighted collapse and snapshot-based backtracking.
package wfc

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownOption = errors.New("wfc: unknown option")
	ErrOutOfRange    = errors.New("wfc: cell out of range")
	ErrInvalidSize   = errors.New("wfc: grid dimensions must be positive")
	ErrExhausted     = errors.New("wfc: step and restart budget exhausted")
)

// Option is a tile id from the catalog.
type Option uint32

// Direction names a grid neighbour.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the rule-file key for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// offsets is indexed by Direction. Y grows downwards.
var offsets = [4][2]int{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

// Rules lists the options permitted next to an option in each direction.
type Rules struct {
	Up    []Option
	Down  []Option
	Left  []Option
	Right []Option
}

// Toward returns the permitted neighbours in direction d.
func (r Rules) Toward(d Direction) []Option {
	switch d {
	case Up:
		return r.Up
	case Down:
		return r.Down
	case Left:
		return r.Left
	default:
		return r.Right
	}
}

// Allows reports whether n may sit next to the option in direction d.
func (r Rules) Allows(d Direction, n Option) bool {
	return slices.Contains(r.Toward(d), n)
}

// Catalog is the immutable option set a solver works over.
type Catalog struct {
	All         []Option
	Terrain     []Option
	Rail        []Option
	Frequencies map[Option]uint32
	Rules       map[Option]Rules
}

// Validate checks that every option has a positive frequency and a rule
// entry, and that rules and classes only name catalogued options.
func (c *Catalog) Validate() error {
	if len(c.All) == 0 {
		return errors.New("wfc: catalog has no options")
	}

	for _, o := range c.All {
		f, ok := c.Frequencies[o]
		if !ok {
			return fmt.Errorf("%w: %d has no frequency", ErrUnknownOption, o)
		}
		if f == 0 {
			return fmt.Errorf("wfc: option %d has zero frequency", o)
		}
		if _, ok := c.Rules[o]; !ok {
			return fmt.Errorf("%w: %d has no adjacency rules", ErrUnknownOption, o)
		}
	}

	for o, r := range c.Rules {
		if !c.Contains(o) {
			return fmt.Errorf("%w: rules given for %d", ErrUnknownOption, o)
		}
		for d := Up; d <= Right; d++ {
			for _, n := range r.Toward(d) {
				if !c.Contains(n) {
					return fmt.Errorf("%w: %d listed %s of %d", ErrUnknownOption, n, d, o)
				}
			}
		}
	}

	for _, o := range c.Terrain {
		if !c.Contains(o) {
			return fmt.Errorf("%w: terrain option %d", ErrUnknownOption, o)
		}
	}
	for _, o := range c.Rail {
		if !c.Contains(o) {
			return fmt.Errorf("%w: rail option %d", ErrUnknownOption, o)
		}
	}
	return nil
}

// Contains reports whether o is in the catalog.
func (c *Catalog) Contains(o Option) bool {
	_, ok := c.Frequencies[o]
	return ok && slices.Contains(c.All, o)
}

// Frequency returns the relative weight of o.
func (c *Catalog) Frequency(o Option) (uint32, error) {
	f, ok := c.Frequencies[o]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOption, o)
	}
	return f, nil
}

// RulesFor returns the adjacency rules of o.
func (c *Catalog) RulesFor(o Option) (Rules, error) {
	r, ok := c.Rules[o]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %d", ErrUnknownOption, o)
	}
	return r, nil
}

// IsRail reports whether o belongs to the rail class.
func (c *Catalog) IsRail(o Option) bool {
	return slices.Contains(c.Rail, o)
}

// IsTerrain reports whether o belongs to the terrain class.
func (c *Catalog) IsTerrain(o Option) bool {
	return slices.Contains(c.Terrain, o)
}

// NonRail returns every option outside the rail class, in catalog order.
func (c *Catalog) NonRail() []Option {
	out := make([]Option, 0, len(c.All))
	for _, o := range c.All {
		if !c.IsRail(o) {
			out = append(out, o)
		}
	}
	return out
}
