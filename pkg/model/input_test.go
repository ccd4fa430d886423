package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const economicsDataset = "../../testdata/economics.json"

func at(day, period string) Slot {
	return Slot{Day: day, Period: period}
}

func validationErrors(t *testing.T, err error) []ValidationError {
	t.Helper()
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected joined validation errors, got %T", err)

	problems := make([]ValidationError, 0)
	for _, problem := range joined.Unwrap() {
		var validationError ValidationError
		require.True(t, errors.As(problem, &validationError), "unexpected error %v", problem)
		problems = append(problems, validationError)
	}
	return problems
}

func TestInputFromJson(t *testing.T) {
	//** Act
	input, err := InputFromJson(economicsDataset)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultDays, input.Grid.Days)
	assert.Equal(t, DefaultPeriods, input.Grid.Periods)
	assert.Len(t, input.Courses, 45)
	assert.NotEmpty(t, input.Prerequisites)

	index, ok := input.CourseIndex("Mat I")
	require.True(t, ok)
	professor := input.ProfessorOf(index)
	assert.Equal(t, "Rita", professor.Id)
	assert.Contains(t, professor.Courses, index)
	assert.Equal(t, 1, input.Periods[input.PeriodOf(index)].Number)

	for i := 1; i < len(input.Periods); i++ {
		assert.Less(t, input.Periods[i-1].Number, input.Periods[i].Number)
	}
}

func TestProcessRawInput(t *testing.T) {
	t.Run("Required slots exceed availability", func(t *testing.T) {
		//** Arrange
		rawInput := RawModelInput{
			Courses: []Course{
				{Id: "A", Professor: "P", Period: 1, Slots: 2, Availability: []Slot{at("Segunda", "7-9")}},
			},
		}

		//** Act
		_, err := ProcessRawInput(rawInput)

		//** Assert
		problems := validationErrors(t, err)
		require.Len(t, problems, 1)
		assert.Equal(t, "A", problems[0].Course)
		assert.Equal(t, "slots", problems[0].Field)
	})

	t.Run("Malformed courses", func(t *testing.T) {
		//** Arrange
		rawInput := RawModelInput{
			Professors: []string{"P"},
			Courses: []Course{
				{Id: "A", Professor: "Q", Period: 1, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
				{Id: "B", Professor: "P", Period: 0, Slots: 0, Availability: []Slot{at("Domingo", "7-9")}},
				{Id: "B", Professor: "P", Period: 1, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
			},
		}

		//** Act
		_, err := ProcessRawInput(rawInput)

		//** Assert
		fields := make(map[string]bool)
		for _, problem := range validationErrors(t, err) {
			fields[problem.Field] = true
		}
		assert.Equal(t, map[string]bool{"id": true, "professor": true, "period": true, "slots": true, "availability": true}, fields)
	})

	t.Run("Empty catalog and grid", func(t *testing.T) {
		//** Act
		_, err := ProcessRawInput(RawModelInput{Days: []string{"Segunda", "Segunda"}})

		//** Assert
		fields := make([]string, 0)
		for _, problem := range validationErrors(t, err) {
			fields = append(fields, problem.Field)
		}
		assert.ElementsMatch(t, []string{"periods", "days", "courses"}, fields)
	})

	t.Run("Duplicated availability counts once", func(t *testing.T) {
		//** Arrange
		rawInput := RawModelInput{
			Courses: []Course{
				{Id: "A", Professor: "P", Period: 1, Slots: 2, Availability: []Slot{at("Segunda", "7-9"), at("Segunda", "7-9")}},
			},
		}

		//** Act
		_, err := ProcessRawInput(rawInput)

		//** Assert
		assert.Len(t, validationErrors(t, err), 1)
	})

	t.Run("Professors and periods", func(t *testing.T) {
		//** Arrange
		rawInput := RawModelInput{
			Courses: []Course{
				{Id: "A", Professor: "P", Period: 3, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
				{Id: "B", Professor: "Q", Period: 1, Slots: 1, Availability: []Slot{at("Terça", "7-9")}},
				{Id: "C", Professor: "P", Period: 1, Slots: 1, Availability: []Slot{at("Quarta", "7-9")}},
			},
			Preferences:       map[string]Preference{"Q": {UnavailableDays: []string{"Sexta"}}},
			SameDayRestricted: map[string]bool{"P": true, "Unknown": true},
		}

		//** Act
		input, err := ProcessRawInput(rawInput)

		//** Assert
		require.NoError(t, err)
		require.Len(t, input.Professors, 2)
		assert.Equal(t, Professor{Id: "P", Courses: []int{0, 2}, SameDayRestricted: true}, input.Professors[0])
		assert.Equal(t, []string{"Sexta"}, input.Professors[1].Preference.UnavailableDays)
		assert.Equal(t, []AcademicPeriod{{Number: 1, Courses: []int{1, 2}}, {Number: 3, Courses: []int{0}}}, input.Periods)
		assert.True(t, input.Allowed(0, 0))
		assert.False(t, input.Allowed(0, 1))
	})

	t.Run("Prerequisites", func(t *testing.T) {
		//** Arrange
		rawInput := RawModelInput{
			Courses: []Course{
				{Id: "A", Professor: "P", Period: 1, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
				{Id: "B", Professor: "P", Period: 2, Slots: 1, Availability: []Slot{at("Terça", "7-9")}},
				{Id: "C", Professor: "P", Period: 3, Slots: 1, Availability: []Slot{at("Quarta", "7-9")}},
			},
			Prerequisites: []PrerequisitePair{
				{Prerequisite: "A", Dependent: "C"},
				{Prerequisite: "A", Dependent: "B"},
				{Prerequisite: "Unknown", Dependent: "B"},
				{Prerequisite: "B", Dependent: "C"},
				{Prerequisite: "A", Dependent: "C"},
				{Prerequisite: "C", Dependent: "C"},
			},
		}

		//** Act
		input, err := ProcessRawInput(rawInput)

		//** Assert
		require.NoError(t, err)
		expected := []PrerequisitePair{
			{Prerequisite: "A", Dependent: "C"},
			{Prerequisite: "B", Dependent: "C"},
			{Prerequisite: "A", Dependent: "B"},
		}
		if diff := cmp.Diff(expected, input.Prerequisites); diff != "" {
			t.Errorf("unexpected prerequisites (-want +got):\n%v", diff)
		}
	})
}

func TestRawInputFromBytes(t *testing.T) {
	//** Arrange
	data := []byte(`{
		"days": ["Segunda", "Terça"],
		"periods": ["7-9"],
		"courses": [{"id": "A", "professor": "P", "period": 1, "slots": 1, "availability": [{"day": "Terça", "period": "7-9"}]}],
		"sameDayRestricted": {"P": true},
		"prerequisites": [{"prerequisite": "A", "dependent": "B"}]
	}`)

	//** Act
	rawInput, err := RawInputFromBytes(data)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []Course{{Id: "A", Professor: "P", Period: 1, Slots: 1, Availability: []Slot{at("Terça", "7-9")}}}, rawInput.Courses)
	assert.Equal(t, 2, rawInput.Grid().Size())
	assert.True(t, rawInput.SameDayRestricted["P"])

	_, err = RawInputFromBytes([]byte(`{"courses": `))
	assert.Error(t, err)
}

func TestGrid(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, 25, grid.Size())
	for slot := range grid.Size() {
		index, ok := grid.SlotIndex(grid.Slot(slot))
		assert.True(t, ok)
		assert.Equal(t, slot, index)
	}
	assert.Equal(t, at("Terça", "7-9"), grid.Slot(5))
	assert.Equal(t, []int{5, 6, 7, 8, 9}, grid.DaySlots(1))

	_, ok := grid.SlotIndex(at("Sábado", "7-9"))
	assert.False(t, ok)
}
