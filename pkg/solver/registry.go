package solver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var solvers = map[string]func() Solver{
	"gophersat": NewGophersatSolver,
	"cbc":       NewCbcSolver,
}

// Names lists the registered solvers in alphabetical order
func Names() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

func ByName(name string) (Solver, error) {
	constructor, ok := solvers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver, allowed values are %v", name, Names())
	}
	return constructor(), nil
}
