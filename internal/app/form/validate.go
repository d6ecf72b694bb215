package form

import (
	"github.com/yigit/resultdesk/internal/pkg/validation"
)

// Violation describes why a field is invalid
type Violation struct {
	Rule    validation.Rule `json:"rule"`
	Message string          `json:"message"`
}

// Errors maps a field to its violation. A field missing from the map is valid.
type Errors map[Field]Violation

// Has reports whether field currently has an error
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Message returns the message shown next to field, or ""
func (e Errors) Message(field Field) string {
	return e[field].Message
}

// Messages flattens the errors into field name → message
func (e Errors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for f, v := range e {
		out[string(f)] = v.Message
	}
	return out
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for f, v := range e {
		out[f] = v
	}
	return out
}

var messages = map[Field]map[validation.Rule]string{
	FieldName: {
		validation.RuleRequired: "Name is required",
		validation.RuleTooShort: "Name must be at least 2 characters",
		validation.RuleTooLong:  "Name must be at most 255 characters",
	},
	FieldMarks: {
		validation.RuleRequired:   "Marks is required",
		validation.RuleOutOfRange: "Marks must be between 0 and 100",
	},
}

// Validate checks the user-entered fields of d.
// Section is constrained by its choice set and grade is derived, so neither is checked here.
func Validate(d Draft) Errors {
	errs := Errors{}

	nameRule := validation.NewStringValidation(d.Name).
		Trimmed().
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Check()
	if nameRule != validation.RuleNone {
		errs[FieldName] = violation(FieldName, nameRule)
	}

	marksRule := validation.NewNumericTextValidation(d.Marks, validation.MarksMin, validation.MarksMax).Check()
	if marksRule != validation.RuleNone {
		errs[FieldMarks] = violation(FieldMarks, marksRule)
	}

	return errs
}

func violation(field Field, rule validation.Rule) Violation {
	return Violation{Rule: rule, Message: messages[field][rule]}
}
