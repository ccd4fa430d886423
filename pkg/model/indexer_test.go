package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexer(t *testing.T) {
	const (
		courses    = 4
		slots      = 6
		professors = 3
		days       = 2
		periods    = 2
		pairs      = 3
	)
	indexer := newIndexer(courses, slots, professors, days, periods, pairs)

	t.Run("Total", func(t *testing.T) {
		assert.Equal(t, courses*slots+professors*days+courses*days+periods*days+pairs*days, indexer.Total())
	})

	t.Run("Unique variables", func(t *testing.T) {
		//** Arrange
		type attributes struct {
			family        variableFamily
			first, second int
		}
		expected := make([]attributes, 0, indexer.Total())
		for course := range courses {
			for slot := range slots {
				expected = append(expected, attributes{assignmentFamily, course, slot})
			}
		}
		for professor := range professors {
			for day := range days {
				expected = append(expected, attributes{professorDayFamily, professor, day})
			}
		}
		for course := range courses {
			for day := range days {
				expected = append(expected, attributes{courseDayFamily, course, day})
			}
		}
		for period := range periods {
			for day := range days {
				expected = append(expected, attributes{periodDayFamily, period, day})
			}
		}
		for pair := range pairs {
			for day := range days {
				expected = append(expected, attributes{slackFamily, pair, day})
			}
		}

		//** Act
		index := func(attributes attributes) int {
			switch attributes.family {
			case assignmentFamily:
				return indexer.Assignment(attributes.first, attributes.second)
			case professorDayFamily:
				return indexer.ProfessorDay(attributes.first, attributes.second)
			case courseDayFamily:
				return indexer.CourseDay(attributes.first, attributes.second)
			case periodDayFamily:
				return indexer.PeriodDay(attributes.first, attributes.second)
			}
			return indexer.Slack(attributes.first, attributes.second)
		}

		//** Assert
		for variable, attributesOf := range expected {
			assert.Equal(t, variable, index(attributesOf))

			family, first, second := indexer.Attributes(variable)
			assert.Equal(t, attributesOf, attributes{family, first, second})
		}
	})
}
