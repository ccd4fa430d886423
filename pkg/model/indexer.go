package model

type variableFamily int

const (
	assignmentFamily   variableFamily = iota // x[course][slot]
	professorDayFamily                       // y[professor][day]
	courseDayFamily                          // courseDay[course][day]
	periodDayFamily                          // periodDay[academic period][day]
	slackFamily                              // slack[prerequisite pair][day]
)

// indexer interface is designed to give a unique solver variable to each combination of a family's attributes and vice versa.
// Variables are numbered family by family, in the order the families are declared above.
type indexer interface {
	Assignment(course, slot int) int
	ProfessorDay(professor, day int) int
	CourseDay(course, day int) int
	PeriodDay(period, day int) int
	Slack(pair, day int) int
	// Returns the family and attributes of a variable
	Attributes(variable int) (family variableFamily, first, second int)
	Total() int
}

func newIndexer(courses, slots, professors, days, periods, pairs int) indexer {
	implementation := &indexerImplementation{
		courses:    courses,
		slots:      slots,
		professors: professors,
		days:       days,
		periods:    periods,
		pairs:      pairs,
	}
	implementation.offsets = [...]int{
		0,
		courses * slots,
		courses*slots + professors*days,
		courses*slots + professors*days + courses*days,
		courses*slots + professors*days + courses*days + periods*days,
	}
	return implementation
}
