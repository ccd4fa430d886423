package model

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/samber/lo"
)

func buildModel(modelInput ModelInput, options Options) (*solver.Model, indexer, []GroupStats) {
	grid := modelInput.Grid
	indexer := newIndexer(
		len(modelInput.Courses),
		grid.Size(),
		len(modelInput.Professors),
		len(grid.Days),
		len(modelInput.Periods),
		len(modelInput.Prerequisites),
	)

	model := solver.NewModel("timetable")
	for variable := range indexer.Total() {
		model.AddVariable(variableName(modelInput, indexer, variable))
	}

	state := constraintState{
		input:   modelInput,
		indexer: indexer,
		options: options,
	}

	// Execute constraint families on different goroutines, each one writes only its own position
	constraints := make([][]solver.Constraint, len(constraintFamilies))
	var wg sync.WaitGroup
	for i, family := range constraintFamilies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			constraints[i] = family.build(state)
		}()
	}
	wg.Wait()

	// Collect in family order so the model does not depend on scheduling
	groups := make([]GroupStats, 0, len(constraintFamilies))
	for i, family := range constraintFamilies {
		for _, constraint := range constraints[i] {
			model.AddConstraint(constraint.Name, constraint.Terms, constraint.Relation, constraint.Bound)
		}
		groups = append(groups, GroupStats{Name: family.name, Constraints: len(constraints[i])})
	}

	model.SetObjective(objectiveTerms(state), solver.Minimize)
	return model, indexer, groups
}

func variableName(modelInput ModelInput, indexer indexer, variable int) string {
	grid := modelInput.Grid
	family, first, second := indexer.Attributes(variable)
	switch family {
	case assignmentFamily:
		slot := grid.Slot(second)
		return fmt.Sprintf("x_%v_%v_%v", modelInput.Courses[first].Id, slot.Day, slot.Period)
	case professorDayFamily:
		return fmt.Sprintf("y_%v_%v", modelInput.Professors[first].Id, grid.Days[second])
	case courseDayFamily:
		return fmt.Sprintf("course_day_%v_%v", modelInput.Courses[first].Id, grid.Days[second])
	case periodDayFamily:
		return fmt.Sprintf("period_day_%v_%v", modelInput.Periods[first].Number, grid.Days[second])
	}
	pair := modelInput.Prerequisites[first]
	return fmt.Sprintf("slack_prereq_%v_%v_%v", pair.Prerequisite, pair.Dependent, grid.Days[second])
}

type decodedSolution struct {
	schedule            Schedule
	violations          []PrerequisiteViolation
	preferenceConflicts []PreferenceConflict
	professorDays       map[string][]string
}

func decodeSolution(values []bool, indexer indexer, modelInput ModelInput) (decodedSolution, error) {
	if len(values) != indexer.Total() {
		return decodedSolution{}, InternalConsistencyError{
			Reason: fmt.Sprintf("solver returned %v values for %v variables", len(values), indexer.Total()),
		}
	}

	grid := modelInput.Grid
	decoded := decodedSolution{
		schedule:            make(Schedule, len(modelInput.Courses)),
		violations:          make([]PrerequisiteViolation, 0),
		preferenceConflicts: make([]PreferenceConflict, 0),
		professorDays:       make(map[string][]string, len(modelInput.Professors)),
	}

	//** Assignments
	for course, info := range modelInput.Courses {
		slots := make([]Slot, 0, info.Slots)
		for slot := range grid.Size() {
			if values[indexer.Assignment(course, slot)] {
				slots = append(slots, grid.Slot(slot))
			}
		}
		if len(slots) != info.Slots {
			return decodedSolution{}, InternalConsistencyError{
				Reason: fmt.Sprintf("course \"%v\" got %v slots but requires %v", info.Id, len(slots), info.Slots),
			}
		}
		decoded.schedule[info.Id] = slots

		professor := modelInput.ProfessorOf(course)
		for _, slot := range slots {
			if reason, ok := dispreferred(professor, slot); ok {
				decoded.preferenceConflicts = append(decoded.preferenceConflicts, PreferenceConflict{
					Professor: professor.Id,
					Course:    info.Id,
					Slot:      slot,
					Reason:    reason,
				})
			}
		}
	}

	//** Professor days, read from the schedule rather than from the indicator variables
	for _, professor := range modelInput.Professors {
		decoded.professorDays[professor.Id] = teachingDays(professor, modelInput, decoded.schedule)
	}

	//** Prerequisite violations
	// A slack only counts when the alignment it relaxes is actually broken, a zero weight leaves it free
	for pair, info := range modelInput.Prerequisites {
		dependent, _ := modelInput.CourseIndex(info.Dependent)
		prerequisite, _ := modelInput.CourseIndex(info.Prerequisite)
		period := modelInput.PeriodOf(prerequisite)

		for day := range grid.Days {
			if !values[indexer.Slack(pair, day)] {
				continue
			}
			if values[indexer.CourseDay(dependent, day)] && !values[indexer.CourseDay(prerequisite, day)] && values[indexer.PeriodDay(period, day)] {
				decoded.violations = append(decoded.violations, PrerequisiteViolation{
					Dependent:    info.Dependent,
					Prerequisite: info.Prerequisite,
					Day:          grid.Days[day],
				})
			}
		}
	}

	return decoded, nil
}

// teachingDays returns the days, in grid order, in which the professor teaches at least once
func teachingDays(professor Professor, modelInput ModelInput, schedule Schedule) []string {
	used := make(map[string]bool)
	for _, course := range professor.Courses {
		for _, slot := range schedule[modelInput.Courses[course].Id] {
			used[slot.Day] = true
		}
	}
	return lo.Filter(modelInput.Grid.Days, func(day string, _ int) bool { return used[day] })
}

// dispreferred reports whether a slot falls on one of the professor's unavailable days or periods
func dispreferred(professor *Professor, slot Slot) (string, bool) {
	if professor == nil || professor.Preference == nil {
		return "", false
	}
	if slices.Contains(professor.Preference.UnavailableDays, slot.Day) {
		return "unavailable day", true
	}
	if slices.Contains(professor.Preference.UnavailablePeriods, slot.Period) {
		return "unavailable period", true
	}
	return "", false
}

func verify(schedule Schedule, modelInput ModelInput, options Options) error {
	grid := modelInput.Grid

	for id := range schedule {
		if _, ok := modelInput.CourseIndex(id); !ok {
			return InternalConsistencyError{Reason: fmt.Sprintf("schedule references unknown course \"%v\"", id)}
		}
	}

	professorAssistance := make([][]bool, len(modelInput.Professors))
	for professor := range professorAssistance {
		professorAssistance[professor] = make([]bool, grid.Size())
	}
	periodAssistance := make([][]bool, len(modelInput.Periods))
	for period := range periodAssistance {
		periodAssistance[period] = make([]bool, grid.Size())
	}
	professorIndex := lo.SliceToMap(lo.Range(len(modelInput.Professors)), func(professor int) (string, int) {
		return modelInput.Professors[professor].Id, professor
	})

	for course, info := range modelInput.Courses {
		slots := schedule[info.Id]
		professor := professorIndex[info.Professor]
		period := modelInput.PeriodOf(course)

		// Check that:
		// - Course has exactly its required number of slots
		// - Every slot belongs to the grid and to the course's availability
		// - Professor is not already teaching in the slot
		// - No course of the same academic period is already in the slot
		// - Courses of same-day restricted professors meet at most once a day
		if len(slots) != info.Slots {
			return InternalConsistencyError{Reason: fmt.Sprintf("course \"%v\" has %v slots but requires %v", info.Id, len(slots), info.Slots)}
		}

		daysTaught := make(map[string]bool)
		for _, slot := range slots {
			index, ok := grid.SlotIndex(slot)
			if !ok || !modelInput.Allowed(course, index) {
				return InternalConsistencyError{Reason: fmt.Sprintf("course \"%v\" is assigned to unavailable slot \"%v\"", info.Id, slot)}
			}
			if professorAssistance[professor][index] {
				return InternalConsistencyError{Reason: fmt.Sprintf("professor \"%v\" teaches twice at \"%v\"", info.Professor, slot)}
			}
			if periodAssistance[period][index] {
				return InternalConsistencyError{Reason: fmt.Sprintf("period %v has two courses at \"%v\"", info.Period, slot)}
			}
			if modelInput.Professors[professor].SameDayRestricted && daysTaught[slot.Day] {
				return InternalConsistencyError{Reason: fmt.Sprintf("course \"%v\" meets twice on %v", info.Id, slot.Day)}
			}

			professorAssistance[professor][index] = true
			periodAssistance[period][index] = true
			daysTaught[slot.Day] = true
		}
	}

	// Check the weekly day cap of every professor
	for _, professor := range modelInput.Professors {
		if days := teachingDays(professor, modelInput, schedule); len(days) > options.MaxDaysPerProfessor {
			return InternalConsistencyError{
				Reason: fmt.Sprintf("professor \"%v\" teaches on %v days, at most %v are allowed", professor.Id, len(days), options.MaxDaysPerProfessor),
			}
		}
	}

	return nil
}
