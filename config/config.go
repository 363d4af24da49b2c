// Package config defines the declared-variable and runtime-tuning surface
// consumed by the compiler and runtime (component C10). The TOML-style file
// format embedders may load this from is explicitly outside the core
// contract (spec §1) — this package only defines and validates the Go value.
package config

import "sort"

// VariableTypeKind is the declared type of a story variable.
type VariableTypeKind int

const (
	Integer VariableTypeKind = iota
	Float
	Bool
	Enum
)

func (k VariableTypeKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// VariableKind is a declared variable's type, carrying its enumerated value
// set when Kind is Enum.
type VariableKind struct {
	Kind   VariableTypeKind
	Values []string // only meaningful when Kind == Enum
}

// RuntimeTuning are the numeric knobs that shape bucket weighting at runtime.
type RuntimeTuning struct {
	// ChosenEventFrequencyPenalty is added to a bucket child's effective
	// weight (it is negative by default, so it lowers the weight)
	// immediately after the child is chosen, so repeat draws are
	// discouraged until EventFrequencyCooldown picks have passed.
	ChosenEventFrequencyPenalty int32
	// EventFrequencyCooldown is the number of subsequent draws from the same
	// bucket before a penalized child's weight recovers.
	EventFrequencyCooldown uint32
	// MetRequirementFrequencyBoost is added to a bucket child's effective
	// weight for each of its FrequencyModifiers whose condition currently
	// holds, beyond the modifier's own Delta — a global bias toward content
	// that has become newly relevant.
	MetRequirementFrequencyBoost uint32
}

// DefaultRuntimeTuning are the spec §3 defaults.
func DefaultRuntimeTuning() RuntimeTuning {
	return RuntimeTuning{
		ChosenEventFrequencyPenalty: -100,
		EventFrequencyCooldown:      10,
		MetRequirementFrequencyBoost: 50,
	}
}

// Config is the compiler/runtime's declared-state and tuning surface.
type Config struct {
	Variables      map[string]VariableKind
	Reputations    map[string]struct{}
	Locales        []string
	DefaultLocale  string
	Runtime        RuntimeTuning
}

// New returns a Config with DefaultRuntimeTuning and empty declarations.
func New() *Config {
	return &Config{
		Variables:   make(map[string]VariableKind),
		Reputations: make(map[string]struct{}),
		Runtime:     DefaultRuntimeTuning(),
	}
}

// HasReputation reports whether name was declared as a reputation.
func (c *Config) HasReputation(name string) bool {
	_, ok := c.Reputations[name]
	return ok
}

// VariableNames returns declared variable names in sorted order, used both
// for "did you mean" suggestions and as the stable index the compiler
// assigns VariableIds from.
func (c *Config) VariableNames() []string {
	names := make([]string, 0, len(c.Variables))
	for name := range c.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
