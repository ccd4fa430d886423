package model

import (
	"fmt"

	"github.com/Ritapaz/projeto/pkg/solver"
)

type constraintState struct {
	input   ModelInput
	indexer indexer
	options Options
}

type constraintFamily struct {
	name  string
	build func(state constraintState) []solver.Constraint
}

// Every family is independent from the others, the model is the union of all of them
var constraintFamilies = []constraintFamily{
	{"slot_count", slotCountConstraints},
	{"availability", availabilityConstraints},
	{"professor_conflict", professorConflictConstraints},
	{"professor_days", professorDayConstraints},
	{"same_day", sameDayConstraints},
	{"course_day", courseDayConstraints},
	{"period_day", periodDayConstraints},
	{"period_overlap", periodOverlapConstraints},
	{"prerequisite_day", prerequisiteConstraints},
}

func term(variable int, coeff int) solver.Term {
	return solver.Term{Var: solver.VarID(variable), Coeff: coeff}
}

// sum(x[c][s] for s in slots) = required slots of c
func slotCountConstraints(state constraintState) []solver.Constraint {
	constraints := make([]solver.Constraint, 0, len(state.input.Courses))
	for course, info := range state.input.Courses {
		terms := make([]solver.Term, 0, state.input.Grid.Size())
		for slot := range state.input.Grid.Size() {
			terms = append(terms, term(state.indexer.Assignment(course, slot), 1))
		}
		constraints = append(constraints, solver.Constraint{
			Name:     fmt.Sprintf("slots_%v", info.Id),
			Terms:    terms,
			Relation: solver.Equal,
			Bound:    info.Slots,
		})
	}
	return constraints
}

// x[c][s] = 0 for every slot outside the availability of c
func availabilityConstraints(state constraintState) []solver.Constraint {
	constraints := make([]solver.Constraint, 0)
	for course, info := range state.input.Courses {
		for slot := range state.input.Grid.Size() {
			if state.input.Allowed(course, slot) {
				continue
			}
			constraints = append(constraints, solver.Constraint{
				Name:     fmt.Sprintf("availability_%v_%v", info.Id, state.input.Grid.Slot(slot)),
				Terms:    []solver.Term{term(state.indexer.Assignment(course, slot), 1)},
				Relation: solver.Equal,
				Bound:    0,
			})
		}
	}
	return constraints
}

// sum(x[c][s] for c taught by p) <= 1 for every professor p and slot s
func professorConflictConstraints(state constraintState) []solver.Constraint {
	constraints := make([]solver.Constraint, 0, len(state.input.Professors)*state.input.Grid.Size())
	for _, professor := range state.input.Professors {
		for slot := range state.input.Grid.Size() {
			terms := make([]solver.Term, 0, len(professor.Courses))
			for _, course := range professor.Courses {
				terms = append(terms, term(state.indexer.Assignment(course, slot), 1))
			}
			constraints = append(constraints, solver.Constraint{
				Name:     fmt.Sprintf("conflict_%v_%v", professor.Id, state.input.Grid.Slot(slot)),
				Terms:    terms,
				Relation: solver.LessOrEqual,
				Bound:    1,
			})
		}
	}
	return constraints
}

// x[c][d,t] <= y[p][d] for every course c of professor p, and sum(y[p][d] for d in days) <= max days
func professorDayConstraints(state constraintState) []solver.Constraint {
	grid := state.input.Grid
	constraints := make([]solver.Constraint, 0)
	for professor, info := range state.input.Professors {
		dayTerms := make([]solver.Term, 0, len(grid.Days))
		for day := range grid.Days {
			present := state.indexer.ProfessorDay(professor, day)
			for _, course := range info.Courses {
				for _, slot := range grid.DaySlots(day) {
					constraints = append(constraints, solver.Constraint{
						Name:     fmt.Sprintf("uses_day_%v_%v_%v", info.Id, state.input.Courses[course].Id, grid.Slot(slot)),
						Terms:    []solver.Term{term(state.indexer.Assignment(course, slot), 1), term(present, -1)},
						Relation: solver.LessOrEqual,
						Bound:    0,
					})
				}
			}
			dayTerms = append(dayTerms, term(present, 1))
		}
		constraints = append(constraints, solver.Constraint{
			Name:     fmt.Sprintf("day_limit_%v", info.Id),
			Terms:    dayTerms,
			Relation: solver.LessOrEqual,
			Bound:    state.options.MaxDaysPerProfessor,
		})
	}
	return constraints
}

// sum(x[c][d,t] for t in periods) <= 1 for every course c of a same-day restricted professor and day d
func sameDayConstraints(state constraintState) []solver.Constraint {
	grid := state.input.Grid
	constraints := make([]solver.Constraint, 0)
	for _, professor := range state.input.Professors {
		if !professor.SameDayRestricted {
			continue
		}
		for _, course := range professor.Courses {
			for day := range grid.Days {
				terms := make([]solver.Term, 0, len(grid.Periods))
				for _, slot := range grid.DaySlots(day) {
					terms = append(terms, term(state.indexer.Assignment(course, slot), 1))
				}
				constraints = append(constraints, solver.Constraint{
					Name:     fmt.Sprintf("same_day_%v_%v_%v", professor.Id, state.input.Courses[course].Id, grid.Days[day]),
					Terms:    terms,
					Relation: solver.LessOrEqual,
					Bound:    1,
				})
			}
		}
	}
	return constraints
}

// courseDay[c][d] = 1 iff c has a slot on day d:
// courseDay[c][d] <= sum(x[c][d,t]) and x[c][d,t] <= courseDay[c][d]
func courseDayConstraints(state constraintState) []solver.Constraint {
	grid := state.input.Grid
	constraints := make([]solver.Constraint, 0)
	for course, info := range state.input.Courses {
		for day := range grid.Days {
			indicator := state.indexer.CourseDay(course, day)

			upper := []solver.Term{term(indicator, 1)}
			for _, slot := range grid.DaySlots(day) {
				upper = append(upper, term(state.indexer.Assignment(course, slot), -1))
			}
			constraints = append(constraints, solver.Constraint{
				Name:     fmt.Sprintf("course_day_upper_%v_%v", info.Id, grid.Days[day]),
				Terms:    upper,
				Relation: solver.LessOrEqual,
				Bound:    0,
			})

			for _, slot := range grid.DaySlots(day) {
				constraints = append(constraints, solver.Constraint{
					Name:     fmt.Sprintf("course_day_link_%v_%v", info.Id, grid.Slot(slot)),
					Terms:    []solver.Term{term(state.indexer.Assignment(course, slot), 1), term(indicator, -1)},
					Relation: solver.LessOrEqual,
					Bound:    0,
				})
			}
		}
	}
	return constraints
}

// periodDay[P][d] = 1 iff some course of academic period P has a slot on day d
func periodDayConstraints(state constraintState) []solver.Constraint {
	grid := state.input.Grid
	constraints := make([]solver.Constraint, 0)
	for period, info := range state.input.Periods {
		for day := range grid.Days {
			indicator := state.indexer.PeriodDay(period, day)

			upper := []solver.Term{term(indicator, 1)}
			for _, course := range info.Courses {
				for _, slot := range grid.DaySlots(day) {
					upper = append(upper, term(state.indexer.Assignment(course, slot), -1))
				}
			}
			constraints = append(constraints, solver.Constraint{
				Name:     fmt.Sprintf("period_day_upper_%v_%v", info.Number, grid.Days[day]),
				Terms:    upper,
				Relation: solver.LessOrEqual,
				Bound:    0,
			})

			for _, course := range info.Courses {
				for _, slot := range grid.DaySlots(day) {
					constraints = append(constraints, solver.Constraint{
						Name:     fmt.Sprintf("period_day_link_%v_%v_%v", state.input.Courses[course].Id, info.Number, grid.Slot(slot)),
						Terms:    []solver.Term{term(state.indexer.Assignment(course, slot), 1), term(indicator, -1)},
						Relation: solver.LessOrEqual,
						Bound:    0,
					})
				}
			}
		}
	}
	return constraints
}

// sum(x[c][s] for c in P) <= 1 for every academic period P and slot s
func periodOverlapConstraints(state constraintState) []solver.Constraint {
	constraints := make([]solver.Constraint, 0, len(state.input.Periods)*state.input.Grid.Size())
	for _, period := range state.input.Periods {
		for slot := range state.input.Grid.Size() {
			terms := make([]solver.Term, 0, len(period.Courses))
			for _, course := range period.Courses {
				terms = append(terms, term(state.indexer.Assignment(course, slot), 1))
			}
			constraints = append(constraints, solver.Constraint{
				Name:     fmt.Sprintf("no_overlap_period%v_%v", period.Number, state.input.Grid.Slot(slot)),
				Terms:    terms,
				Relation: solver.LessOrEqual,
				Bound:    1,
			})
		}
	}
	return constraints
}

// courseDay[dep][d] <= courseDay[pre][d] + 1 - periodDay[period of pre][d] + slack[pair][d]
//
// When the dependent meets on a day its prerequisite's period is active, the prerequisite should meet that day too.
// The slack keeps the model feasible when it cannot.
func prerequisiteConstraints(state constraintState) []solver.Constraint {
	grid := state.input.Grid
	constraints := make([]solver.Constraint, 0, len(state.input.Prerequisites)*len(grid.Days))
	for pair, info := range state.input.Prerequisites {
		dependent, _ := state.input.CourseIndex(info.Dependent)
		prerequisite, _ := state.input.CourseIndex(info.Prerequisite)
		period := state.input.PeriodOf(prerequisite)

		for day := range grid.Days {
			constraints = append(constraints, solver.Constraint{
				Name: fmt.Sprintf("prerequisite_day_%v_%v_%v", info.Prerequisite, info.Dependent, grid.Days[day]),
				Terms: []solver.Term{
					term(state.indexer.CourseDay(dependent, day), 1),
					term(state.indexer.CourseDay(prerequisite, day), -1),
					term(state.indexer.PeriodDay(period, day), 1),
					term(state.indexer.Slack(pair, day), -1),
				},
				Relation: solver.LessOrEqual,
				Bound:    1,
			})
		}
	}
	return constraints
}

// objectiveTerms: professor-days + prerequisite weight * slacks + preference weight * dispreferred assignments
func objectiveTerms(state constraintState) []solver.Term {
	input, indexer := state.input, state.indexer
	terms := make([]solver.Term, 0)

	for professor := range input.Professors {
		for day := range input.Grid.Days {
			terms = append(terms, term(indexer.ProfessorDay(professor, day), 1))
		}
	}

	if state.options.PrerequisiteWeight != 0 {
		for pair := range input.Prerequisites {
			for day := range input.Grid.Days {
				terms = append(terms, term(indexer.Slack(pair, day), state.options.PrerequisiteWeight))
			}
		}
	}

	if state.options.PreferenceWeight != 0 {
		for course := range input.Courses {
			professor := input.ProfessorOf(course)
			for slot := range input.Grid.Size() {
				if !input.Allowed(course, slot) {
					continue
				}
				if _, ok := dispreferred(professor, input.Grid.Slot(slot)); ok {
					terms = append(terms, term(indexer.Assignment(course, slot), state.options.PreferenceWeight))
				}
			}
		}
	}

	return terms
}
