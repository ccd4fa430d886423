package model

import (
	"testing"

	. "github.com/onsi/gomega"
)

func slotsOfDay(day string, periods ...string) []Slot {
	slots := make([]Slot, 0, len(periods))
	for _, period := range periods {
		slots = append(slots, at(day, period))
	}
	return slots
}

func TestAnalyzeFeasibility(t *testing.T) {
	t.Run("Bottleneck", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		available := append(slotsOfDay("Segunda", "7-9", "9-11", "11-13", "14-16"), slotsOfDay("Terça", "7-9", "9-11", "11-13", "14-16")...)
		courses := []Course{
			{Id: "A", Professor: "P", Period: 1, Slots: 4, Availability: available},
			{Id: "B", Professor: "Q", Period: 1, Slots: 3, Availability: available[:5]},
			{Id: "C", Professor: "R", Period: 1, Slots: 3, Availability: available[3:]},
			{Id: "D", Professor: "R", Period: 2, Slots: 1, Availability: available[:1]},
		}

		//** Act
		report, err := AnalyzeFeasibility(courses)

		//** Assert
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(report.Periods).To(HaveLen(2))

		first := report.Periods[0]
		g.Expect(first.Period).To(Equal(1))
		g.Expect(first.Courses).To(Equal([]string{"A", "B", "C"}))
		g.Expect(first.RequiredSlots).To(Equal(10))
		g.Expect(first.AvailableSlots).To(Equal(8))
		g.Expect(first.MatchableSlots).To(Equal(8))
		g.Expect(first.Bottleneck).To(BeTrue())

		second := report.Periods[1]
		g.Expect(second.Bottleneck).To(BeFalse())
		g.Expect(second.MatchingDeficit).To(BeFalse())

		g.Expect(report.Bottlenecks()).To(ConsistOf(first))
	})

	t.Run("Matching deficit", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		courses := []Course{
			{Id: "A", Professor: "P", Period: 1, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
			{Id: "B", Professor: "Q", Period: 1, Slots: 1, Availability: []Slot{at("Segunda", "7-9")}},
			{Id: "C", Professor: "R", Period: 1, Slots: 1, Availability: slotsOfDay("Terça", "7-9", "9-11")},
		}

		//** Act
		report, err := AnalyzeFeasibility(courses)

		//** Assert
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(report.Periods).To(HaveLen(1))
		g.Expect(report.Periods[0].AvailableSlots).To(Equal(3))
		g.Expect(report.Periods[0].MatchableSlots).To(Equal(2))
		g.Expect(report.Periods[0].Bottleneck).To(BeFalse())
		g.Expect(report.Periods[0].MatchingDeficit).To(BeTrue())
		g.Expect(report.Bottlenecks()).To(HaveLen(1))
	})

	t.Run("Empty availability", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		courses := []Course{
			{Id: "A", Professor: "P", Period: 2, Slots: 2},
		}

		//** Act
		report, err := AnalyzeFeasibility(courses)

		//** Assert
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(report.Periods).To(HaveLen(1))
		g.Expect(report.Periods[0].EmptyAvailability).To(Equal([]string{"A"}))
		g.Expect(report.Periods[0].RequiredSlots).To(Equal(2))
		g.Expect(report.Periods[0].AvailableSlots).To(BeZero())
		g.Expect(report.Periods[0].Bottleneck).To(BeTrue())
	})

	t.Run("No courses", func(t *testing.T) {
		g := NewWithT(t)

		report, err := AnalyzeFeasibility(nil)

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(report.Periods).To(BeEmpty())
	})
}
