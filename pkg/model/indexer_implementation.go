package model

type indexerImplementation struct {
	courses    int
	slots      int
	professors int
	days       int
	periods    int
	pairs      int
	offsets    [5]int
}

func (indexer *indexerImplementation) Assignment(course, slot int) int {
	return indexer.offsets[assignmentFamily] + course*indexer.slots + slot
}

func (indexer *indexerImplementation) ProfessorDay(professor, day int) int {
	return indexer.offsets[professorDayFamily] + professor*indexer.days + day
}

func (indexer *indexerImplementation) CourseDay(course, day int) int {
	return indexer.offsets[courseDayFamily] + course*indexer.days + day
}

func (indexer *indexerImplementation) PeriodDay(period, day int) int {
	return indexer.offsets[periodDayFamily] + period*indexer.days + day
}

func (indexer *indexerImplementation) Slack(pair, day int) int {
	return indexer.offsets[slackFamily] + pair*indexer.days + day
}

func (indexer *indexerImplementation) Total() int {
	return indexer.offsets[slackFamily] + indexer.pairs*indexer.days
}

func (indexer *indexerImplementation) Attributes(variable int) (family variableFamily, first, second int) {
	family = slackFamily
	for family > assignmentFamily && variable < indexer.offsets[family] {
		family--
	}
	variable -= indexer.offsets[family]

	width := indexer.days
	if family == assignmentFamily {
		width = indexer.slots
	}
	return family, variable / width, variable % width
}
