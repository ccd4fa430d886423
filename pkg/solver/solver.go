package solver

import (
	"context"
	"fmt"
)

type Status int

const (
	NotSolved Status = iota // Budget exhausted (or solve interrupted) before a definitive answer
	Optimal
	Infeasible
	Unbounded
)

func (status Status) String() string {
	switch status {
	case NotSolved:
		return "NotSolved"
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

func (status Status) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// Solution carries a value for every model variable only when Status is Optimal
type Solution struct {
	Status    Status
	Values    []bool
	Objective int
}

type Solver interface {
	// Solve optimizes the model. The context deadline is the time budget: when it expires the
	// solver returns a NotSolved solution (not an error) and no values.
	Solve(ctx context.Context, model *Model) (Solution, error)
}
