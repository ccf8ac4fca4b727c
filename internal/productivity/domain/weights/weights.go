// Package weights defines the four-factor weight vector used for scoring.
package weights

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strategy names understood by the scoring service.
const (
	StrategySmart      = "smart"
	StrategyFastest    = "fastest"
	StrategyHighImpact = "high_impact"
	StrategyDeadline   = "deadline"
)

// Vector holds the relative influence of urgency, importance, effort and dependency.
// A Vector is a value: updates produce a new Vector.
type Vector struct {
	Urgency    float64 `json:"w_u" yaml:"w_u" mapstructure:"w_u"`
	Importance float64 `json:"w_i" yaml:"w_i" mapstructure:"w_i"`
	Effort     float64 `json:"w_e" yaml:"w_e" mapstructure:"w_e"`
	Dependency float64 `json:"w_d" yaml:"w_d" mapstructure:"w_d"`
}

// rawPresets keeps the published strategy ratios. high_impact sums to 0.9.
var rawPresets = map[string]Vector{
	StrategySmart:      {Urgency: 0.35, Importance: 0.30, Effort: 0.20, Dependency: 0.15},
	StrategyFastest:    {Urgency: 0.15, Importance: 0.20, Effort: 0.60, Dependency: 0.05},
	StrategyHighImpact: {Urgency: 0.15, Importance: 0.60, Effort: 0.10, Dependency: 0.05},
	StrategyDeadline:   {Urgency: 0.70, Importance: 0.15, Effort: 0.10, Dependency: 0.05},
}

var presets = normalizePresets(rawPresets)

func normalizePresets(raw map[string]Vector) map[string]Vector {
	out := make(map[string]Vector, len(raw))
	for name, v := range raw {
		out[name] = v.scale(1 / v.Sum())
	}
	return out
}

// Default returns the smart preset.
func Default() Vector {
	return presets[StrategySmart]
}

// Equal returns a vector with all four factors at 0.25.
func Equal() Vector {
	return Vector{Urgency: 0.25, Importance: 0.25, Effort: 0.25, Dependency: 0.25}
}

// Preset returns the normalized weights of a named strategy. Unknown names report false.
func Preset(name string) (Vector, bool) {
	v, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// PresetOrDefault returns the named preset, falling back to the smart preset.
func PresetOrDefault(name string) Vector {
	if v, ok := Preset(name); ok {
		return v
	}
	return Default()
}

// Strategies lists the preset names in sorted order.
func Strategies() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum returns the total of all four factors.
func (v Vector) Sum() float64 {
	return v.Urgency + v.Importance + v.Effort + v.Dependency
}

// Normalize scales the vector so its factors sum to 1.
// Negative or non-finite factors count as 0; a vector with nothing left returns Default().
func (v Vector) Normalize() Vector {
	clean := Vector{
		Urgency:    nonNegative(v.Urgency),
		Importance: nonNegative(v.Importance),
		Effort:     nonNegative(v.Effort),
		Dependency: nonNegative(v.Dependency),
	}
	sum := clean.Sum()
	if sum == 0 {
		return Default()
	}
	return clean.scale(1 / sum)
}

// IsNormalized reports whether the factors are non-negative and sum to 1 within tolerance.
func (v Vector) IsNormalized() bool {
	if v.Urgency < 0 || v.Importance < 0 || v.Effort < 0 || v.Dependency < 0 {
		return false
	}
	return math.Abs(v.Sum()-1) < 1e-9
}

func (v Vector) String() string {
	return fmt.Sprintf("urgency=%.3f importance=%.3f effort=%.3f dependency=%.3f",
		v.Urgency, v.Importance, v.Effort, v.Dependency)
}

func (v Vector) scale(f float64) Vector {
	return Vector{
		Urgency:    v.Urgency * f,
		Importance: v.Importance * f,
		Effort:     v.Effort * f,
		Dependency: v.Dependency * f,
	}
}

func nonNegative(f float64) float64 {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
