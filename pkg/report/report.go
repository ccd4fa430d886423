package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/Ritapaz/projeto/pkg/model"
	"github.com/gocarina/gocsv"
)

// ScheduleRow is one assigned slot of a course, flattened for CSV export
type ScheduleRow struct {
	Course    string `csv:"course"`
	Professor string `csv:"professor"`
	Period    int    `csv:"academic_period"`
	Day       string `csv:"day"`
	Time      string `csv:"time"`

	day, time int
}

type ConflictRow struct {
	Professor string `csv:"professor"`
	Course    string `csv:"course"`
	Day       string `csv:"day"`
	Time      string `csv:"time"`
	Reason    string `csv:"reason"`
}

// ScheduleRows flattens a schedule sorted by academic period, then grid order, then course
func ScheduleRows(schedule model.Schedule, modelInput model.ModelInput) []*ScheduleRow {
	rows := make([]*ScheduleRow, 0)
	for _, course := range modelInput.Courses {
		for _, slot := range schedule[course.Id] {
			day, _ := modelInput.Grid.DayIndex(slot.Day)
			time, _ := modelInput.Grid.PeriodIndex(slot.Period)
			rows = append(rows, &ScheduleRow{
				Course:    course.Id,
				Professor: course.Professor,
				Period:    course.Period,
				Day:       slot.Day,
				Time:      slot.Period,
				day:       day,
				time:      time,
			})
		}
	}

	slices.SortStableFunc(rows, func(first, second *ScheduleRow) int {
		return cmp.Or(
			cmp.Compare(first.Period, second.Period),
			cmp.Compare(first.day, second.day),
			cmp.Compare(first.time, second.time),
			cmp.Compare(first.Course, second.Course),
		)
	})
	return rows
}

func ConflictRows(conflicts []model.PreferenceConflict) []*ConflictRow {
	rows := make([]*ConflictRow, 0, len(conflicts))
	for _, conflict := range conflicts {
		rows = append(rows, &ConflictRow{
			Professor: conflict.Professor,
			Course:    conflict.Course,
			Day:       conflict.Slot.Day,
			Time:      conflict.Slot.Period,
			Reason:    conflict.Reason,
		})
	}
	return rows
}

// WriteResultCSV writes the schedule rows followed, when present, by the prerequisite violations
// and the preference conflicts, each as its own CSV table separated by a blank line
func WriteResultCSV(out io.Writer, result model.Result, modelInput model.ModelInput) error {
	rows := ScheduleRows(result.Schedule, modelInput)
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("cannot write schedule: %w", err)
	}

	if len(result.Violations) > 0 {
		fmt.Fprintln(out)
		violations := result.Violations
		if err := gocsv.Marshal(&violations, out); err != nil {
			return fmt.Errorf("cannot write prerequisite violations: %w", err)
		}
	}

	if len(result.PreferenceConflicts) > 0 {
		fmt.Fprintln(out)
		conflicts := ConflictRows(result.PreferenceConflicts)
		if err := gocsv.Marshal(&conflicts, out); err != nil {
			return fmt.Errorf("cannot write preference conflicts: %w", err)
		}
	}
	return nil
}

func WriteFeasibilityCSV(out io.Writer, report model.FeasibilityReport) error {
	periods := report.Periods
	if err := gocsv.Marshal(&periods, out); err != nil {
		return fmt.Errorf("cannot write feasibility report: %w", err)
	}
	return nil
}

func WriteJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("cannot write json: %w", err)
	}
	return nil
}

// ScheduleString renders the schedule as a CSV string
func ScheduleString(schedule model.Schedule, modelInput model.ModelInput) (string, error) {
	rows := ScheduleRows(schedule, modelInput)
	return gocsv.MarshalString(&rows)
}
