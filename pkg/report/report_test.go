package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Ritapaz/projeto/pkg/model"
	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, period string) model.Slot {
	return model.Slot{Day: day, Period: period}
}

func testInput(t *testing.T) model.ModelInput {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawModelInput{
		Courses: []model.Course{
			{Id: "B", Professor: "P", Period: 2, Slots: 1, Availability: []model.Slot{at("Segunda", "7-9")}},
			{Id: "A", Professor: "Q", Period: 1, Slots: 2, Availability: []model.Slot{at("Terça", "7-9"), at("Segunda", "9-11")}},
		},
	})
	require.NoError(t, err)
	return input
}

func testResult() model.Result {
	return model.Result{
		Status: solver.Optimal,
		Schedule: model.Schedule{
			"A": {at("Segunda", "9-11"), at("Terça", "7-9")},
			"B": {at("Segunda", "7-9")},
		},
		Violations: []model.PrerequisiteViolation{{Dependent: "B", Prerequisite: "A", Day: "Segunda"}},
		PreferenceConflicts: []model.PreferenceConflict{
			{Professor: "Q", Course: "A", Slot: at("Terça", "7-9"), Reason: "unavailable day"},
		},
	}
}

func TestScheduleRows(t *testing.T) {
	//** Act
	rows := ScheduleRows(testResult().Schedule, testInput(t))

	//** Assert
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "A", "B"}, []string{rows[0].Course, rows[1].Course, rows[2].Course})
	assert.Equal(t, "Segunda", rows[0].Day)
	assert.Equal(t, "Terça", rows[1].Day)
	assert.Equal(t, 2, rows[2].Period)
}

func TestWriteResultCSV(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := WriteResultCSV(&out, testResult(), testInput(t))

	//** Assert
	require.NoError(t, err)
	tables := strings.Split(strings.TrimSpace(out.String()), "\n\n")
	require.Len(t, tables, 3)
	assert.Equal(t, "course,professor,academic_period,day,time\n"+
		"A,Q,1,Segunda,9-11\n"+
		"A,Q,1,Terça,7-9\n"+
		"B,P,2,Segunda,7-9", tables[0])
	assert.Equal(t, "dependent,prerequisite,day\nB,A,Segunda", tables[1])
	assert.Equal(t, "professor,course,day,time,reason\nQ,A,Terça,7-9,unavailable day", tables[2])
}

func TestWriteFeasibilityCSV(t *testing.T) {
	//** Arrange
	report, err := model.AnalyzeFeasibility(testInput(t).Courses)
	require.NoError(t, err)
	var out bytes.Buffer

	//** Act
	err = WriteFeasibilityCSV(&out, report)

	//** Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"period,required_slots,available_slots,matchable_slots,bottleneck,matching_deficit",
		"1,2,2,2,false,false",
		"2,1,1,1,false,false",
	}, lines)
}

func TestWriteJSON(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := WriteJSON(&out, testResult())

	//** Assert
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "Optimal", decoded["status"])
	assert.Contains(t, decoded, "schedule")
}
