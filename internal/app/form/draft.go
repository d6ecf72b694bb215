package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
	"github.com/yigit/resultdesk/internal/pkg/validation"
)

// Field names an input of the student form
type Field string

const (
	FieldName    Field = "name"
	FieldSection Field = "section"
	FieldMarks   Field = "marks"
	FieldGrade   Field = "grade"
)

// Fields lists the form inputs in display order
var Fields = []Field{FieldName, FieldSection, FieldMarks, FieldGrade}

// ParseField converts an input name into a Field
func ParseField(name string) (Field, bool) {
	f := Field(strings.TrimSpace(name))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Mode tells whether the form creates a record or edits an existing one
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft is the in-progress student record held by the form.
// Grade is derived from Marks and is never set on its own.
type Draft struct {
	Name    string         `json:"name"`
	Section models.Section `json:"section"`
	Marks   string         `json:"marks"`
	Grade   grading.Grade  `json:"grade"`
}

// DefaultDraft returns the blank record a create-mode form starts from
func DefaultDraft() Draft {
	return Draft{
		Name:    "",
		Section: models.DefaultSection,
		Marks:   "",
		Grade:   grading.GradeA,
	}
}

// DraftFromStudent copies an existing record into a draft
func DraftFromStudent(s models.Student) Draft {
	return Draft{
		Name:    s.Name,
		Section: s.Section,
		Marks:   strconv.FormatFloat(s.Marks, 'f', -1, 64),
		Grade:   grading.Grade(s.Grade),
	}
}

// Student converts a validated draft into a record with the given ID
func (d Draft) Student(id int64) (models.Student, error) {
	marks, ok := validation.ParseNumber(d.Marks)
	if !ok {
		return models.Student{}, fmt.Errorf("%w: marks %q is not a number", apperrors.ErrValidationFailed, d.Marks)
	}
	return models.Student{
		ID:      id,
		Name:    strings.TrimSpace(d.Name),
		Section: d.Section,
		Marks:   marks,
		Grade:   string(d.Grade),
	}, nil
}
