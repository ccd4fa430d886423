package model

import (
	"fmt"
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type PeriodReport struct {
	Period            int      `json:"period" csv:"period"`
	Courses           []string `json:"courses" csv:"-"`
	RequiredSlots     int      `json:"requiredSlots" csv:"required_slots"`
	AvailableSlots    int      `json:"availableSlots" csv:"available_slots"`   // Size of the union of the courses' availability
	MatchableSlots    int      `json:"matchableSlots" csv:"matchable_slots"`   // Slot units that can get a distinct slot at the same time
	Bottleneck        bool     `json:"bottleneck" csv:"bottleneck"`            // AvailableSlots < RequiredSlots
	MatchingDeficit   bool     `json:"matchingDeficit" csv:"matching_deficit"` // MatchableSlots < RequiredSlots
	EmptyAvailability []string `json:"emptyAvailability" csv:"-"`
}

type FeasibilityReport struct {
	Periods []PeriodReport `json:"periods"`
}

// Bottlenecks returns the periods that cannot possibly fit their courses
func (report FeasibilityReport) Bottlenecks() []PeriodReport {
	return lo.Filter(report.Periods, func(period PeriodReport, _ int) bool {
		return period.Bottleneck || period.MatchingDeficit
	})
}

type slotUnit struct {
	course int
	unit   int
}

// AnalyzeFeasibility is an advisory capacity check per academic period. Courses of one period may not
// overlap, so a period needs at least as many distinct slots as the sum of its courses' slot counts.
// It works on unvalidated courses and never blocks scheduling.
func AnalyzeFeasibility(courses []Course) (FeasibilityReport, error) {
	byPeriod := lo.GroupBy(lo.Range(len(courses)), func(course int) int { return courses[course].Period })
	numbers := lo.Keys(byPeriod)
	slices.Sort(numbers)

	report := FeasibilityReport{Periods: make([]PeriodReport, 0, len(numbers))}
	for _, number := range numbers {
		members := byPeriod[number]

		periodReport := PeriodReport{
			Period:  number,
			Courses: lo.Map(members, func(course int, _ int) string { return courses[course].Id }),
			EmptyAvailability: lo.FilterMap(members, func(course int, _ int) (string, bool) {
				return courses[course].Id, len(courses[course].Availability) == 0
			}),
		}

		union := lo.Uniq(lo.FlatMap(members, func(course int, _ int) []Slot { return courses[course].Availability }))
		units := lo.FlatMap(members, func(course int, _ int) []slotUnit {
			return lo.Times(max(courses[course].Slots, 0), func(unit int) slotUnit { return slotUnit{course, unit} })
		})

		periodReport.RequiredSlots = lo.SumBy(members, func(course int) int { return courses[course].Slots })
		periodReport.AvailableSlots = len(union)

		matchable, err := matchSlotUnits(courses, units, union)
		if err != nil {
			return FeasibilityReport{}, fmt.Errorf("cannot match slots of period %v: %w", number, err)
		}
		periodReport.MatchableSlots = matchable

		periodReport.Bottleneck = periodReport.AvailableSlots < periodReport.RequiredSlots
		periodReport.MatchingDeficit = periodReport.MatchableSlots < periodReport.RequiredSlots
		report.Periods = append(report.Periods, periodReport)
	}

	return report, nil
}

// matchSlotUnits returns the size of a maximum matching between slot units and the slots their course allows
func matchSlotUnits(courses []Course, units []slotUnit, slots []Slot) (int, error) {
	if len(units) == 0 || len(slots) == 0 {
		return 0, nil
	}

	allowed := make([]map[Slot]bool, len(courses))
	neighbors := func(unitAny any, slotAny any) (bool, error) {
		unit := unitAny.(slotUnit)
		slot := slotAny.(Slot)

		if allowed[unit.course] == nil {
			allowed[unit.course] = lo.SliceToMap(courses[unit.course].Availability, func(slot Slot) (Slot, bool) { return slot, true })
		}
		return allowed[unit.course][slot], nil
	}

	// Transform units and slots to slices of any
	unitsAny, slotsAny := lo.Map(units, func(unit slotUnit, _ int) any { return unit }), lo.Map(slots, func(slot Slot, _ int) any { return slot })

	graph, err := bipartitegraph.NewBipartiteGraph(unitsAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}
