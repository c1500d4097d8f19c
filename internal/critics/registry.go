package critics

import (
	"github.com/IhabMohamed/mppic/internal/mppi"
)

// registry is the closed name-to-constructor table, filled in at package
// init and never mutated afterward. Grounded on the teacher's
// experiment.Registry, which does the same thing for named simulation
// scenarios: a map literal rather than a plugin loader, so an unknown name
// fails fast with a typed error instead of a runtime dlopen failure.
var registry = map[string]Constructor{
	"GoalCritic":                      newGoalCritic,
	"GoalAngleCritic":                 newGoalAngleCritic,
	"ReferenceTrajectoryCritic":       newReferenceTrajectoryCritic,
	"ApproxReferenceTrajectoryCritic": newApproxReferenceTrajectoryCritic,
	"PathAngleCritic":                 newPathAngleCritic,
	"PreferForwardCritic":             newPreferForwardCritic,
	"TwirlingCritic":                  newTwirlingCritic,
	"ObstaclesCritic":                 newObstaclesCritic,
}

// Names lists every critic name the registry can build, for config
// validation and CLI help text.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Build constructs the critic named name with the given weight and
// critic-specific params, returning a ConfigurationError wrapping
// ErrUnknownCritic for any name not in the registry.
func Build(name string, weight float64, params map[string]float64) (Critic, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &mppi.ConfigurationError{
			Field:   "critic",
			Value:   name,
			Wrapped: mppi.ErrUnknownCritic,
		}
	}
	return ctor(weight, params)
}

// BuildAll constructs one Critic per entry in specs, preserving order, and
// fails on the first unknown name.
func BuildAll(specs []Spec) ([]Critic, error) {
	out := make([]Critic, 0, len(specs))
	for _, s := range specs {
		c, err := Build(s.Name, s.Weight, s.Params)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Spec names one configured critic: which constructor to use, its weight,
// and any extra named parameters.
type Spec struct {
	Name   string
	Weight float64
	Params map[string]float64
}
