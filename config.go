package allpaths

import (
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/util"
)

// Options are planner bit flags
type Options uint

const (
	// IncludeCollScan adds a collection scan candidate even when indexed candidates exist
	IncludeCollScan Options = 1 << iota
	// NoTableScan forbids the collection scan fallback
	NoTableScan
	// IsCount plans for a count only: fetches without a residual filter are elided
	IsCount
)

var optionNames = []struct {
	opt  Options
	name string
}{
	{IncludeCollScan, "INCLUDE_COLLSCAN"},
	{NoTableScan, "NO_TABLE_SCAN"},
	{IsCount, "IS_COUNT"},
}

// Has returns true if every flag of o is set
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// String renders the set flags, ex: INCLUDE_COLLSCAN|IS_COUNT
func (o Options) String() string {
	var names []string
	for _, n := range optionNames {
		if o.Has(n.opt) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseOptions parses flag names, ex: ["IS_COUNT"]
func ParseOptions(names []string) (Options, error) {
	var o Options
	for _, name := range names {
		found := false
		for _, n := range optionNames {
			if strings.EqualFold(n.name, name) {
				o |= n.opt
				found = true
			}
		}
		if !found {
			return 0, errors.New(errors.Validation, "unknown planner option: %s", name)
		}
	}
	return o, nil
}

// Config configures a planner
type Config struct {
	// IndexIntersection enables AND_SORTED plans over regular indexes
	IndexIntersection bool `json:"indexIntersection"`
	// HashIntersection enables AND_HASH plans. It has no effect unless IndexIntersection is set.
	HashIntersection bool `json:"hashIntersection"`
	// MaxIndexedSolutions caps the number of indexed candidates per query
	MaxIndexedSolutions int `json:"maxIndexedSolutions" validate:"min=1"`
	// MaxOrSolutions caps the number of alternatives an $or expands into
	MaxOrSolutions int `json:"maxOrSolutions" validate:"min=1"`
	// Options are the default planner flags
	Options Options `json:"options"`
	// LogLevel enables a json logger at the given level. Logging is off when empty.
	LogLevel string `json:"logLevel" validate:"omitempty,oneof=debug info warn warning error"`
}

// DefaultConfig returns the default planner configuration
func DefaultConfig() Config {
	return Config{
		MaxIndexedSolutions: 64,
		MaxOrSolutions:      10,
	}
}

// LoadConfig decodes a configuration map (ex: parsed from yaml) over the default configuration
func LoadConfig(values map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if err := util.Decode(values, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.Validation, "failed to decode planner config")
	}
	return cfg, cfg.Validate()
}

// Validate validates the configuration
func (c Config) Validate() error {
	return errors.Wrap(util.ValidateStruct(&c), errors.Validation, "invalid planner config")
}
