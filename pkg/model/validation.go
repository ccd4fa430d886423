package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var courseValidator = newCourseValidator()

func newCourseValidator() *validator.Validate {
	validate := validator.New()
	// Report fields by their json names, the names users see in the dataset
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func validate(rawInput RawModelInput, grid Grid) error {
	problems := make([]error, 0)

	//** Grid
	if len(grid.Days) == 0 {
		problems = append(problems, ValidationError{Field: "days", Reason: "the grid has no days"})
	}
	if len(grid.Periods) == 0 {
		problems = append(problems, ValidationError{Field: "periods", Reason: "the grid has no periods"})
	}
	if duplicates := lo.FindDuplicates(grid.Days); len(duplicates) > 0 {
		problems = append(problems, ValidationError{Field: "days", Reason: fmt.Sprintf("duplicated days %v", duplicates)})
	}
	if duplicates := lo.FindDuplicates(grid.Periods); len(duplicates) > 0 {
		problems = append(problems, ValidationError{Field: "periods", Reason: fmt.Sprintf("duplicated periods %v", duplicates)})
	}

	//** Courses
	if len(rawInput.Courses) == 0 {
		problems = append(problems, ValidationError{Field: "courses", Reason: "the catalog is empty"})
	}
	ids := lo.Map(rawInput.Courses, func(course Course, _ int) string { return course.Id })
	if duplicates := lo.FindDuplicates(lo.Compact(ids)); len(duplicates) > 0 {
		problems = append(problems, ValidationError{Field: "id", Reason: fmt.Sprintf("duplicated course ids %v", duplicates)})
	}

	knownProfessors := lo.SliceToMap(rawInput.Professors, func(professor string) (string, bool) { return professor, true })
	for _, course := range rawInput.Courses {
		problems = append(problems, validateCourse(course, grid, knownProfessors)...)
	}

	return errors.Join(problems...)
}

func validateCourse(course Course, grid Grid, knownProfessors map[string]bool) []error {
	problems := make([]error, 0)

	if err := courseValidator.Struct(course); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return append(problems, ValidationError{Course: course.Id, Field: "course", Reason: err.Error()})
		}
		for _, fieldError := range fieldErrors {
			problems = append(problems, ValidationError{
				Course: course.Id,
				Field:  fieldError.Field(),
				Reason: describeFieldError(fieldError),
			})
		}
	}

	if len(knownProfessors) > 0 && course.Professor != "" && !knownProfessors[course.Professor] {
		problems = append(problems, ValidationError{
			Course: course.Id,
			Field:  "professor",
			Reason: fmt.Sprintf("unknown professor \"%v\"", course.Professor),
		})
	}

	// Only grid slots count towards availability, duplicates count once
	distinct := make(map[int]bool)
	for _, slot := range course.Availability {
		index, ok := grid.SlotIndex(slot)
		if !ok {
			problems = append(problems, ValidationError{
				Course: course.Id,
				Field:  "availability",
				Reason: fmt.Sprintf("slot \"%v\" is outside the grid", slot),
			})
			continue
		}
		distinct[index] = true
	}

	if course.Slots > 0 && course.Slots > len(distinct) {
		problems = append(problems, ValidationError{
			Course: course.Id,
			Field:  "slots",
			Reason: fmt.Sprintf("requires %v slots but only %v are available", course.Slots, len(distinct)),
		})
	}

	return problems
}

func describeFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %v, got %v", fieldError.Param(), fieldError.Value())
	}
	return fmt.Sprintf("failed the %q rule", fieldError.Tag())
}
