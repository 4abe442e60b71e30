package wildfire

import (
	"fmt"
	"sort"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// RuleKind selects the formula family.
type RuleKind int

const (
	KindBase RuleKind = iota
	KindExtended
	KindCombined
)

// RuleConfig describes a named rule configuration.
type RuleConfig struct {
	Name  string
	Kind  RuleKind
	Slope string
	// DiagonalExponent is the power applied to a diagonal neighbour's rate
	// of spread. Adjacent neighbours always use 1.
	DiagonalExponent float64
	Capping          Capping
	// RequireBurning skips cells with no fully burning neighbour.
	RequireBurning bool
}

var ruleConfigs = map[string]RuleConfig{
	"base": {
		Kind:    KindBase,
		Slope:   "flat",
		Capping: Capping{Policy: CapClamp},
	},
	"base-threshold": {
		Kind:    KindBase,
		Slope:   "flat",
		Capping: Capping{Policy: CapThreshold},
	},
	"extended": {
		Kind:             KindExtended,
		Slope:            "linear",
		DiagonalExponent: 1,
		Capping:          Capping{Policy: CapThreshold},
		RequireBurning:   true,
	},
	"extended-continuous": {
		Kind:             KindExtended,
		Slope:            "exp",
		DiagonalExponent: 1,
		Capping:          Capping{Policy: CapClamp, Epsilon: 0.1},
	},
	"combined": {
		Kind:             KindCombined,
		Slope:            "exp",
		DiagonalExponent: 2,
		Capping:          Capping{Policy: CapClamp, Epsilon: 0.001},
	},
}

// LookupRule returns the named rule configuration.
func LookupRule(name string) (RuleConfig, error) {
	rc, ok := ruleConfigs[name]
	if !ok {
		return RuleConfig{}, fmt.Errorf("wildfire: rule %q (available: %v): %w", name, RuleNames(), ErrUnknownRule)
	}
	rc.Name = name
	return rc, nil
}

// RuleNames lists the registered rule configurations.
func RuleNames() []string {
	names := make([]string, 0, len(ruleConfigs))
	for n := range ruleConfigs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRule builds the rule described by rc and populates every cell's height
// factor cache using the rule's slope function and slopeParam. It must run
// exactly once per grid, before the first step.
func NewRule(rc RuleConfig, g *Grid, slopeParam float64) (Rule, error) {
	slope, err := factors.Slope(rc.Slope)
	if err != nil {
		return nil, fmt.Errorf("wildfire: rule %q: %w", rc.Name, err)
	}
	if rc.Kind != KindBase && g.MaxRateOfSpread() <= 0 {
		return nil, fmt.Errorf("wildfire: rule %q: %w", rc.Name, ErrNoFuel)
	}

	var r Rule
	sp := spread{
		name:           rc.Name,
		capping:        rc.Capping,
		exponent:       rc.DiagonalExponent,
		requireBurning: rc.RequireBurning,
	}
	switch rc.Kind {
	case KindBase:
		r = &Base{name: rc.Name, capping: rc.Capping}
	case KindExtended:
		r = &Extended{spread: sp}
	case KindCombined:
		r = &Combined{spread: sp}
	default:
		return nil, fmt.Errorf("wildfire: rule %q has kind %d: %w", rc.Name, rc.Kind, ErrUnknownRule)
	}
	g.PrecomputeHeightFactors(slope, slopeParam)
	return r, nil
}
