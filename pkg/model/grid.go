package model

import "fmt"

var (
	DefaultDays    = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}
	DefaultPeriods = []string{"7-9", "9-11", "11-13", "14-16", "16-18"}
)

// Slot is one (day, period) cell of the weekly grid
type Slot struct {
	Day    string `json:"day" mapstructure:"day" csv:"day"`
	Period string `json:"period" mapstructure:"period" csv:"period"`
}

func (slot Slot) String() string {
	return fmt.Sprintf("%v %v", slot.Day, slot.Period)
}

// Grid is the ordered weekly grid. Slots are numbered day-major: slot = day*len(Periods) + period
type Grid struct {
	Days    []string
	Periods []string

	dayIndex    map[string]int
	periodIndex map[string]int
}

func NewGrid(days, periods []string) Grid {
	grid := Grid{
		Days:        days,
		Periods:     periods,
		dayIndex:    make(map[string]int, len(days)),
		periodIndex: make(map[string]int, len(periods)),
	}
	for i, day := range days {
		grid.dayIndex[day] = i
	}
	for i, period := range periods {
		grid.periodIndex[period] = i
	}
	return grid
}

func DefaultGrid() Grid {
	return NewGrid(DefaultDays, DefaultPeriods)
}

func (grid Grid) Size() int {
	return len(grid.Days) * len(grid.Periods)
}

func (grid Grid) Slot(index int) Slot {
	return Slot{Day: grid.Days[index/len(grid.Periods)], Period: grid.Periods[index%len(grid.Periods)]}
}

// SlotIndex returns the position of the slot in the grid, or false if its day or period is unknown
func (grid Grid) SlotIndex(slot Slot) (int, bool) {
	day, ok := grid.dayIndex[slot.Day]
	if !ok {
		return 0, false
	}
	period, ok := grid.periodIndex[slot.Period]
	if !ok {
		return 0, false
	}
	return day*len(grid.Periods) + period, true
}

func (grid Grid) DayIndex(day string) (int, bool) {
	index, ok := grid.dayIndex[day]
	return index, ok
}

func (grid Grid) PeriodIndex(period string) (int, bool) {
	index, ok := grid.periodIndex[period]
	return index, ok
}

// DaySlots returns the slot indices of a day in period order
func (grid Grid) DaySlots(day int) []int {
	slots := make([]int, len(grid.Periods))
	for period := range grid.Periods {
		slots[period] = day*len(grid.Periods) + period
	}
	return slots
}
