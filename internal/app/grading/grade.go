// Package grading maps numeric marks to letter grades.
package grading

import (
	"strings"

	"github.com/yigit/resultdesk/internal/pkg/validation"
)

// Grade is a letter grade. The empty Grade means no grade could be derived.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
	GradeNone  Grade = ""
)

type threshold struct {
	min   float64
	grade Grade
}

// scale is evaluated top-down, first match wins.
var scale = []threshold{
	{min: 90, grade: GradeAPlus},
	{min: 80, grade: GradeA},
	{min: 70, grade: GradeB},
	{min: 60, grade: GradeC},
	{min: 0, grade: GradeF},
}

// DeriveGrade returns the letter grade for mark.
// Negative marks and NaN yield GradeNone.
func DeriveGrade(mark float64) Grade {
	for _, t := range scale {
		// NaN compares false against every threshold
		if mark >= t.min {
			return t.grade
		}
	}
	return GradeNone
}

// DeriveGradeText parses mark text and derives its grade.
// Blank text counts as a mark of 0. Other text that is not a number yields GradeNone.
func DeriveGradeText(text string) Grade {
	if strings.TrimSpace(text) == "" {
		return DeriveGrade(0)
	}
	mark, ok := validation.ParseNumber(text)
	if !ok {
		return GradeNone
	}
	return DeriveGrade(mark)
}

// String implements fmt.Stringer
func (g Grade) String() string {
	return string(g)
}
