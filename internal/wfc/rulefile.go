package wfc

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RuleFileError reports a rule document that could not be turned into a
// catalog. It is fatal to whoever needs the catalog.
type RuleFileError struct {
	Path string
	Err  error
}

func (e *RuleFileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wfc: rule file: %v", e.Err)
	}
	return fmt.Sprintf("wfc: rule file %s: %v", e.Path, e.Err)
}

func (e *RuleFileError) Unwrap() error {
	return e.Err
}

// ruleDocument is the on-disk layout. Option ids are string keys, the way
// JSON objects require them.
type ruleDocument struct {
	AllOptions     map[string]uint32              `yaml:"all_options"`
	ValidOptions   map[string]map[string][]Option `yaml:"valid_options"`
	TerrainOptions []Option                       `yaml:"terrain_options"`
	RailOptions    []Option                       `yaml:"rail_options"`
}

// LoadRules reads and parses a rule file.
func LoadRules(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RuleFileError{Path: path, Err: err}
	}

	cat, err := ParseRules(data)
	if err != nil {
		var rfe *RuleFileError
		if errors.As(err, &rfe) {
			rfe.Path = path
			return nil, rfe
		}
		return nil, &RuleFileError{Path: path, Err: err}
	}
	return cat, nil
}

// ParseRules builds a validated catalog from a YAML or JSON rule document.
func ParseRules(data []byte) (*Catalog, error) {
	var doc ruleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &RuleFileError{Err: err}
	}

	switch {
	case doc.AllOptions == nil:
		return nil, &RuleFileError{Err: errors.New("missing all_options")}
	case doc.ValidOptions == nil:
		return nil, &RuleFileError{Err: errors.New("missing valid_options")}
	case doc.TerrainOptions == nil:
		return nil, &RuleFileError{Err: errors.New("missing terrain_options")}
	case doc.RailOptions == nil:
		return nil, &RuleFileError{Err: errors.New("missing rail_options")}
	}

	cat := &Catalog{
		All:         make([]Option, 0, len(doc.AllOptions)),
		Terrain:     slices.Clone(doc.TerrainOptions),
		Rail:        slices.Clone(doc.RailOptions),
		Frequencies: make(map[Option]uint32, len(doc.AllOptions)),
		Rules:       make(map[Option]Rules, len(doc.ValidOptions)),
	}

	for key, freq := range doc.AllOptions {
		o, err := parseOptionKey(key)
		if err != nil {
			return nil, &RuleFileError{Err: fmt.Errorf("all_options: %w", err)}
		}
		cat.All = append(cat.All, o)
		cat.Frequencies[o] = freq
	}
	slices.Sort(cat.All)

	for key, dirs := range doc.ValidOptions {
		o, err := parseOptionKey(key)
		if err != nil {
			return nil, &RuleFileError{Err: fmt.Errorf("valid_options: %w", err)}
		}

		var r Rules
		for d := Up; d <= Right; d++ {
			list, ok := dirs[d.String()]
			if !ok {
				return nil, &RuleFileError{Err: fmt.Errorf("valid_options %d: missing %q", o, d.String())}
			}
			switch d {
			case Up:
				r.Up = list
			case Down:
				r.Down = list
			case Left:
				r.Left = list
			case Right:
				r.Right = list
			}
		}
		cat.Rules[o] = r
	}

	if err := cat.Validate(); err != nil {
		return nil, &RuleFileError{Err: err}
	}
	return cat, nil
}

func parseOptionKey(key string) (Option, error) {
	v, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("option id %q: %w", key, err)
	}
	return Option(v), nil
}
