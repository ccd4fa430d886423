package solver

import (
	"context"
	"fmt"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process pseudo-boolean optimizer
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (adapter *gophersatSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{Status: NotSolved}, nil
	}
	if _, ok := model.trivialInfeasibility(); ok {
		return Solution{Status: Infeasible}, nil
	}

	//** Translate constraints into pseudo-boolean constraints
	constraints := make([]gophersat.PBConstr, 0, len(model.Constraints))
	for _, constraint := range model.Constraints {
		translated, feasible := toPBConstrs(constraint)
		if !feasible {
			return Solution{Status: Infeasible}, nil
		}
		constraints = append(constraints, translated...)
	}
	if len(constraints) == 0 {
		// Unconstrained: every variable takes its cheapest value
		return cheapestAssignment(model), nil
	}

	problem := gophersat.ParsePBConstrs(constraints)
	if lits, weights := costFunction(model, problem.NbVars); len(lits) > 0 {
		problem.SetCostFunc(lits, weights)
	}
	pbSolver := gophersat.New(problem)

	//** Optimize, stopping as soon as the budget expires
	stop, done := make(chan struct{}), make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			close(stop)
		case <-done:
		}
	}()
	result := pbSolver.Optimal(nil, stop)
	close(done)

	if ctx.Err() != nil { // An interrupted optimization yields no proof of optimality
		return Solution{Status: NotSolved}, nil
	}

	switch result.Status {
	case gophersat.Unsat:
		return Solution{Status: Infeasible}, nil
	case gophersat.Indet:
		return Solution{Status: NotSolved}, nil
	}

	bindings := result.Model
	values := make([]bool, model.Variables())
	for i := range values {
		values[i] = i < len(bindings) && bindings[i]
	}
	if err := model.Check(values); err != nil {
		return Solution{}, fmt.Errorf("gophersat returned an invalid assignment: %w", err)
	}

	return Solution{Status: Optimal, Values: values, Objective: model.Evaluate(values)}, nil
}

type pbSide struct {
	terms []Term
	bound int
}

// toPBConstrs normalizes a linear constraint into "weighted literals >= n" form; negative coefficients
// are absorbed by negating their literal. It reports false when the constraint can never hold.
func toPBConstrs(constraint Constraint) ([]gophersat.PBConstr, bool) {
	terms := mergeTerms(constraint.Terms)
	negated := lo.Map(terms, func(term Term, _ int) Term { return Term{Var: term.Var, Coeff: -term.Coeff} })

	var sides []pbSide
	switch constraint.Relation {
	case GreaterOrEqual:
		sides = []pbSide{{terms, constraint.Bound}}
	case LessOrEqual:
		sides = []pbSide{{negated, -constraint.Bound}}
	default:
		sides = []pbSide{{terms, constraint.Bound}, {negated, -constraint.Bound}}
	}

	constraints := make([]gophersat.PBConstr, 0, len(sides))
	for _, side := range sides {
		lits, weights := make([]int, 0, len(side.terms)), make([]int, 0, len(side.terms))
		bound, total := side.bound, 0
		for _, term := range side.terms {
			literal, weight := int(term.Var)+1, term.Coeff
			if weight < 0 {
				literal, weight = -literal, -weight
				bound += weight
			}
			lits, weights = append(lits, literal), append(weights, weight)
			total += weight
		}

		if bound <= 0 {
			continue // Always satisfied
		} else if bound > total {
			return nil, false
		}
		constraints = append(constraints, gophersat.PBConstr{Lits: lits, Weights: weights, AtLeast: bound})
	}
	return constraints, true
}

// costFunction turns the objective into positive-weight literals for minimization.
// Variables beyond nbVars never occur in a constraint, so their cheapest value is free and they are left out.
func costFunction(model *Model, nbVars int) ([]gophersat.Lit, []int) {
	lits, weights := make([]gophersat.Lit, 0, len(model.Objective)), make([]int, 0, len(model.Objective))
	for _, term := range mergeTerms(model.Objective) {
		coeff := term.Coeff
		if model.Sense == Maximize {
			coeff = -coeff
		}
		if int(term.Var) >= nbVars {
			continue
		}
		literal := int32(term.Var) + 1
		if coeff < 0 {
			literal, coeff = -literal, -coeff
		}
		lits, weights = append(lits, gophersat.IntToLit(literal)), append(weights, coeff)
	}
	return lits, weights
}

func cheapestAssignment(model *Model) Solution {
	values := make([]bool, model.Variables())
	for _, term := range mergeTerms(model.Objective) {
		coeff := term.Coeff
		if model.Sense == Maximize {
			coeff = -coeff
		}
		values[term.Var] = coeff < 0
	}
	return Solution{Status: Optimal, Values: values, Objective: model.Evaluate(values)}
}

// mergeTerms sums coefficients of repeated variables and drops zero terms, keeping first-seen order
func mergeTerms(terms []Term) []Term {
	coefficients := make(map[VarID]int, len(terms))
	order := make([]VarID, 0, len(terms))
	for _, term := range terms {
		if _, ok := coefficients[term.Var]; !ok {
			order = append(order, term.Var)
		}
		coefficients[term.Var] += term.Coeff
	}
	return lo.FilterMap(order, func(variable VarID, _ int) (Term, bool) {
		return Term{Var: variable, Coeff: coefficients[variable]}, coefficients[variable] != 0
	})
}
