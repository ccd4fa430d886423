package model

import (
	"fmt"
	"time"
)

// ValidationError reports malformed or inconsistent input. It is raised before any model is built.
type ValidationError struct {
	Course string // Empty when the problem is not tied to a course
	Field  string
	Reason string
}

func (err ValidationError) Error() string {
	if err.Course == "" {
		return fmt.Sprintf("invalid %v: %v", err.Field, err.Reason)
	}
	return fmt.Sprintf("invalid %v of course \"%v\": %v", err.Field, err.Course, err.Reason)
}

type InfeasibleError struct {
	RunId string
}

func (err InfeasibleError) Error() string {
	return fmt.Sprintf("run %v: no schedule satisfies every hard constraint", err.RunId)
}

// TimedOutError signals that the solver exhausted its budget without a definitive answer
type TimedOutError struct {
	RunId  string
	Budget time.Duration
}

func (err TimedOutError) Error() string {
	if err.Budget == 0 {
		return fmt.Sprintf("run %v: solver stopped before reaching a definitive status", err.RunId)
	}
	return fmt.Sprintf("run %v: solver exhausted its %v budget", err.RunId, err.Budget)
}

// InternalConsistencyError means a solved assignment breaks an invariant the model guarantees.
// It points at a defect in the model builder or the solver adapter, never at the input.
type InternalConsistencyError struct {
	Reason string
}

func (err InternalConsistencyError) Error() string {
	return "internal consistency failure: " + err.Reason
}
