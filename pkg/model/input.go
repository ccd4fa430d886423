package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type Course struct {
	Id           string `json:"id" mapstructure:"id" validate:"required"`
	Professor    string `json:"professor" mapstructure:"professor" validate:"required"`
	Period       int    `json:"period" mapstructure:"period" validate:"gte=1"` // Academic period (cohort), not the time of day
	Slots        int    `json:"slots" mapstructure:"slots" validate:"gte=1"`   // Weekly slots the course must occupy
	Availability []Slot `json:"availability" mapstructure:"availability"`
}

// Preference is a per-professor soft signal. It never restricts feasibility.
type Preference struct {
	PreferredDays      []string `json:"preferredDays" mapstructure:"preferredDays"`
	PreferredPeriods   []string `json:"preferredPeriods" mapstructure:"preferredPeriods"`
	UnavailableDays    []string `json:"unavailableDays" mapstructure:"unavailableDays"`
	UnavailablePeriods []string `json:"unavailablePeriods" mapstructure:"unavailablePeriods"`
}

type PrerequisitePair struct {
	Prerequisite string `json:"prerequisite" mapstructure:"prerequisite"`
	Dependent    string `json:"dependent" mapstructure:"dependent"`
}

type RawModelInput struct {
	Days              []string              `json:"days" mapstructure:"days"`
	Periods           []string              `json:"periods" mapstructure:"periods"`
	Courses           []Course              `json:"courses" mapstructure:"courses"`
	Professors        []string              `json:"professors" mapstructure:"professors"` // Optional; when present every course must reference one of them
	Preferences       map[string]Preference `json:"preferences" mapstructure:"preferences"`
	SameDayRestricted map[string]bool       `json:"sameDayRestricted" mapstructure:"sameDayRestricted"`
	Prerequisites     []PrerequisitePair    `json:"prerequisites" mapstructure:"prerequisites"`
}

type Professor struct {
	Id                string
	Courses           []int // Indices into ModelInput.Courses
	Preference        *Preference
	SameDayRestricted bool
}

type AcademicPeriod struct {
	Number  int
	Courses []int
}

// ModelInput is the validated, immutable input of a scheduling run together with read-only indices derived from it
type ModelInput struct {
	Grid          Grid
	Courses       []Course
	Professors    []Professor        // In order of first appearance in Courses
	Periods       []AcademicPeriod   // Ascending by number
	Prerequisites []PrerequisitePair // Only pairs between known courses, deduplicated and grouped by dependent

	courseIndex     map[string]int
	courseProfessor []int
	coursePeriod    []int
	availability    [][]bool // availability[course][slot]
}

func InputFromJson(file string) (ModelInput, error) {
	rawInput, err := RawInputFromJson(file)
	if err != nil {
		return ModelInput{}, err
	}
	return ProcessRawInput(rawInput)
}

func RawInputFromJson(file string) (RawModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RawModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	return RawInputFromBytes(bytes)
}

func RawInputFromBytes(bytes []byte) (RawModelInput, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return RawModelInput{}, fmt.Errorf("cannot parse input: %w", err)
	}
	return RawInputFromMap(inputJson)
}

func RawInputFromMap(inputJson map[string]any) (RawModelInput, error) {
	var rawInput RawModelInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return RawModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return rawInput, nil
}

// Grid returns the grid declared by the raw input, or the default grid when it declares none
func (rawInput RawModelInput) Grid() Grid {
	if len(rawInput.Days) == 0 && len(rawInput.Periods) == 0 {
		return DefaultGrid()
	}
	return NewGrid(rawInput.Days, rawInput.Periods)
}

// ProcessRawInput validates the raw input and builds the indices every later stage relies on.
// All validation problems are reported together, each one as a ValidationError.
func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	grid := rawInput.Grid()
	if err := validate(rawInput, grid); err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{
		Grid:            grid,
		Courses:         slices.Clone(rawInput.Courses),
		courseIndex:     make(map[string]int, len(rawInput.Courses)),
		courseProfessor: make([]int, len(rawInput.Courses)),
		coursePeriod:    make([]int, len(rawInput.Courses)),
		availability:    make([][]bool, len(rawInput.Courses)),
	}

	//** Manage professors
	professorIndex := make(map[string]int)
	for i, course := range input.Courses {
		input.courseIndex[course.Id] = i

		index, ok := professorIndex[course.Professor]
		if !ok {
			index = len(input.Professors)
			professorIndex[course.Professor] = index

			professor := Professor{
				Id:                course.Professor,
				SameDayRestricted: rawInput.SameDayRestricted[course.Professor],
			}
			if preference, ok := rawInput.Preferences[course.Professor]; ok {
				professor.Preference = &preference
			}
			input.Professors = append(input.Professors, professor)
		}
		input.Professors[index].Courses = append(input.Professors[index].Courses, i)
		input.courseProfessor[i] = index

		//** Manage availability
		input.availability[i] = make([]bool, grid.Size())
		for _, slot := range course.Availability {
			index, _ := grid.SlotIndex(slot) // Unknown slots were rejected by validate
			input.availability[i][index] = true
		}
	}

	//** Manage academic periods
	numbers := lo.Uniq(lo.Map(input.Courses, func(course Course, _ int) int { return course.Period }))
	slices.Sort(numbers)
	input.Periods = lo.Map(numbers, func(number int, _ int) AcademicPeriod {
		return AcademicPeriod{Number: number}
	})
	for i, course := range input.Courses {
		index := slices.Index(numbers, course.Period)
		input.Periods[index].Courses = append(input.Periods[index].Courses, i)
		input.coursePeriod[i] = index
	}

	//** Manage prerequisites
	input.Prerequisites = effectivePrerequisites(rawInput.Prerequisites, input.courseIndex)

	return input, nil
}

// effectivePrerequisites drops pairs referencing unknown courses (or a course and itself), removes duplicates
// and groups the remaining pairs by dependent, keeping first-appearance order on both levels
func effectivePrerequisites(pairs []PrerequisitePair, courseIndex map[string]int) []PrerequisitePair {
	known := lo.Uniq(lo.Filter(pairs, func(pair PrerequisitePair, _ int) bool {
		_, prerequisiteOk := courseIndex[pair.Prerequisite]
		_, dependentOk := courseIndex[pair.Dependent]
		return prerequisiteOk && dependentOk && pair.Prerequisite != pair.Dependent
	}))

	dependents := lo.Uniq(lo.Map(known, func(pair PrerequisitePair, _ int) string { return pair.Dependent }))
	grouped := lo.GroupBy(known, func(pair PrerequisitePair) string { return pair.Dependent })

	return lo.FlatMap(dependents, func(dependent string, _ int) []PrerequisitePair {
		return grouped[dependent]
	})
}

func (input ModelInput) CourseIndex(id string) (int, bool) {
	index, ok := input.courseIndex[id]
	return index, ok
}

// Allowed reports whether the slot belongs to the course's availability
func (input ModelInput) Allowed(course, slot int) bool {
	return input.availability[course][slot]
}

func (input ModelInput) ProfessorOf(course int) *Professor {
	return &input.Professors[input.courseProfessor[course]]
}

// PeriodOf returns the index into Periods of the course's academic period
func (input ModelInput) PeriodOf(course int) int {
	return input.coursePeriod[course]
}
