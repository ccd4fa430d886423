package model

import (
	"context"
	"time"

	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/rs/zerolog"
)

type Scheduler interface {
	// Build schedules the input. Infeasible and timed out runs are not errors: they are reported through
	// Result.Status. Errors are reserved for solver failures and InternalConsistencyError.
	Build(ctx context.Context, modelInput ModelInput) (Result, error)

	// Verify re-checks every hard invariant of a schedule against the input
	Verify(schedule Schedule, modelInput ModelInput) error
}

type Options struct {
	MaxDaysPerProfessor int
	// PrerequisiteWeight is the objective cost of each unreconciled prerequisite day. Result.Violations lists
	// the days where the prerequisite alignment is actually broken; with a weight of 0 the solver may also
	// raise slack variables on aligned days, and those are not reported.
	PrerequisiteWeight  int
	PreferenceWeight    int // Objective cost of each assignment on a professor's unavailable day or period; 0 only reports them
	TimeBudget          time.Duration
	Logger              *zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxDaysPerProfessor: 3,
		PrerequisiteWeight:  100,
	}
}

func (options Options) logger() *zerolog.Logger {
	if options.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return options.Logger
}

// Schedule maps each course id to its assigned slots, in grid order
type Schedule map[string][]Slot

type PrerequisiteViolation struct {
	Dependent    string `json:"dependent" csv:"dependent"`
	Prerequisite string `json:"prerequisite" csv:"prerequisite"`
	Day          string `json:"day" csv:"day"`
}

type PreferenceConflict struct {
	Professor string `json:"professor" csv:"professor"`
	Course    string `json:"course" csv:"course"`
	Slot      Slot   `json:"slot" csv:"slot"`
	Reason    string `json:"reason" csv:"reason"`
}

type GroupStats struct {
	Name        string `json:"name"`
	Constraints int    `json:"constraints"`
}

type Stats struct {
	Variables     int           `json:"variables"`
	Constraints   int           `json:"constraints"`
	Groups        []GroupStats  `json:"groups"`
	BuildDuration time.Duration `json:"buildDuration"`
	SolveDuration time.Duration `json:"solveDuration"`
}

type Result struct {
	RunId               string                  `json:"runId"`
	Status              solver.Status           `json:"status"`
	Schedule            Schedule                `json:"schedule,omitempty"`
	Violations          []PrerequisiteViolation `json:"violations,omitempty"`
	PreferenceConflicts []PreferenceConflict    `json:"preferenceConflicts,omitempty"`
	ProfessorDays       map[string][]string     `json:"professorDays,omitempty"`
	Objective           int                     `json:"objective"`
	Budget              time.Duration           `json:"budget"`
	Stats               Stats                   `json:"stats"`
}

// Err converts a non optimal status into its error, for callers that would rather branch on errors
func (result Result) Err() error {
	switch result.Status {
	case solver.Optimal:
		return nil
	case solver.Infeasible:
		return InfeasibleError{RunId: result.RunId}
	case solver.NotSolved:
		return TimedOutError{RunId: result.RunId, Budget: result.Budget}
	}
	return InternalConsistencyError{Reason: "solver reported status " + result.Status.String() + " for a 0/1 model"}
}
