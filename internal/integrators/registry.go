package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/tanksim/internal/dynamo"
)

var constructors = map[string]func(substeps int) dynamo.Integrator{
	"exact": func(int) dynamo.Integrator { return NewExact() },
	"rk4":   func(s int) dynamo.Integrator { return NewRK4(s) },
	"euler": func(s int) dynamo.Integrator { return NewEuler(s) },
}

// New returns the named integrator. Substeps are ignored by "exact".
func New(name string, substeps int) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, &dynamo.ConfigError{
			Field:  "integrator",
			Value:  name,
			Reason: fmt.Sprintf("unknown integrator (available: %v)", Names()),
		}
	}
	return fn(substeps), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
