package model

import (
	"context"
	"fmt"
	"time"

	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/google/uuid"
)

type ilpScheduler struct {
	solver  solver.Solver
	options Options
}

// NewScheduler returns a scheduler over the given solver. A non-positive day cap falls back to the default one.
func NewScheduler(solver solver.Solver, options Options) Scheduler {
	if options.MaxDaysPerProfessor <= 0 {
		options.MaxDaysPerProfessor = DefaultOptions().MaxDaysPerProfessor
	}
	return &ilpScheduler{
		solver:  solver,
		options: options,
	}
}

func (scheduler *ilpScheduler) Build(ctx context.Context, modelInput ModelInput) (Result, error) {
	result := Result{
		RunId:  uuid.NewString(),
		Budget: scheduler.options.TimeBudget,
	}
	logger := scheduler.options.logger().With().Str("run", result.RunId).Logger()

	//** Build model
	logger.Info().
		Int("courses", len(modelInput.Courses)).
		Int("professors", len(modelInput.Professors)).
		Int("prerequisites", len(modelInput.Prerequisites)).
		Msg("model build started")

	start := time.Now()
	model, indexer, groups := buildModel(modelInput, scheduler.options)
	result.Stats = Stats{
		Variables:     model.Variables(),
		Constraints:   len(model.Constraints),
		Groups:        groups,
		BuildDuration: time.Since(start),
	}

	for _, group := range groups {
		logger.Debug().Str("group", group.Name).Int("constraints", group.Constraints).Msg("constraint group built")
	}
	logger.Info().
		Int("variables", result.Stats.Variables).
		Int("constraints", result.Stats.Constraints).
		Dur("duration", result.Stats.BuildDuration).
		Msg("model build finished")

	//** Solve model
	if scheduler.options.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scheduler.options.TimeBudget)
		defer cancel()
	}

	start = time.Now()
	solution, err := scheduler.solver.Solve(ctx, model)
	result.Stats.SolveDuration = time.Since(start)
	if err != nil {
		logger.Error().Err(err).Msg("solver failed")
		return Result{}, fmt.Errorf("run %v: %w", result.RunId, err)
	}

	result.Status = solution.Status
	logger.Info().
		Stringer("status", solution.Status).
		Dur("duration", result.Stats.SolveDuration).
		Msg("solver finished")

	if solution.Status != solver.Optimal {
		return result, nil
	}

	//** Decode and verify
	decoded, err := decodeSolution(solution.Values, indexer, modelInput)
	if err == nil {
		err = verify(decoded.schedule, modelInput, scheduler.options)
	}
	if err != nil {
		logger.Error().Err(err).Msg("solved assignment rejected")
		return result, fmt.Errorf("run %v: %w", result.RunId, err)
	}

	result.Schedule = decoded.schedule
	result.Violations = decoded.violations
	result.PreferenceConflicts = decoded.preferenceConflicts
	result.ProfessorDays = decoded.professorDays
	result.Objective = solution.Objective

	logger.Info().
		Int("objective", result.Objective).
		Int("violations", len(result.Violations)).
		Int("preferenceConflicts", len(result.PreferenceConflicts)).
		Msg("schedule decoded")

	return result, nil
}

func (scheduler *ilpScheduler) Verify(schedule Schedule, modelInput ModelInput) error {
	return verify(schedule, modelInput, scheduler.options)
}
