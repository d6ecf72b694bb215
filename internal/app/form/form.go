// Package form holds the student record form: its draft, its displayed
// errors and the handlers that react to field edits, submit and cancel.
//
// A StudentForm has a single owner and is not safe for concurrent use.
package form

import (
	"context"
	"fmt"

	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

// Handler receives the outcome of the form
type Handler interface {
	// OnSubmit is called once per successful validation with the full draft.
	// The receiver persists the record and clears the loading flag.
	OnSubmit(ctx context.Context, record Draft) error
	// OnCancel is called when the user aborts
	OnCancel()
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs are skipped.
type HandlerFuncs struct {
	Submit func(ctx context.Context, record Draft) error
	Cancel func()
}

func (h HandlerFuncs) OnSubmit(ctx context.Context, record Draft) error {
	if h.Submit == nil {
		return nil
	}
	return h.Submit(ctx, record)
}

func (h HandlerFuncs) OnCancel() {
	if h.Cancel != nil {
		h.Cancel()
	}
}

// Outcome reports what Submit did
type Outcome string

const (
	// OutcomeSubmitted means the draft was valid and handed to OnSubmit
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeRejected means validation failed and errors are displayed
	OutcomeRejected Outcome = "rejected"
	// OutcomeDisabled means the form was loading and nothing happened
	OutcomeDisabled Outcome = "disabled"
)

// State is the serializable content of a form
type State struct {
	Mode      Mode   `json:"mode"`
	StudentID int64  `json:"studentId,omitempty"`
	Draft     Draft  `json:"draft"`
	Errors    Errors `json:"errors"`
	Loading   bool   `json:"loading"`
}

// StudentForm is the state holder for one student form
type StudentForm struct {
	state   State
	handler Handler
}

// NewStudentForm starts a form. With a nil initial record the form is in
// create mode with default values, otherwise it edits a copy of initial.
func NewStudentForm(initial *models.Student, handler Handler) *StudentForm {
	state := State{
		Mode:   ModeCreate,
		Draft:  DefaultDraft(),
		Errors: Errors{},
	}
	if initial != nil {
		state.Mode = ModeEdit
		state.StudentID = initial.ID
		state.Draft = DraftFromStudent(*initial)
	}
	return Restore(state, handler)
}

// Restore rebuilds a form from a saved State
func Restore(state State, handler Handler) *StudentForm {
	if state.Errors == nil {
		state.Errors = Errors{}
	}
	if handler == nil {
		handler = HandlerFuncs{}
	}
	return &StudentForm{state: state, handler: handler}
}

// State returns a copy of the form content
func (f *StudentForm) State() State {
	s := f.state
	s.Errors = f.state.Errors.clone()
	return s
}

func (f *StudentForm) Mode() Mode       { return f.state.Mode }
func (f *StudentForm) StudentID() int64 { return f.state.StudentID }
func (f *StudentForm) Draft() Draft     { return f.state.Draft }
func (f *StudentForm) Loading() bool    { return f.state.Loading }

// Errors returns a copy of the displayed errors
func (f *StudentForm) Errors() Errors {
	return f.state.Errors.clone()
}

// SetLoading toggles the in-flight indicator that disables submit and cancel
func (f *StudentForm) SetLoading(loading bool) {
	f.state.Loading = loading
}

// Change merges one field edit into the draft. Editing marks re-derives the
// grade in the same update. The field's displayed error, if any, is cleared;
// nothing is re-validated until submit.
func (f *StudentForm) Change(field Field, value string) error {
	switch field {
	case FieldMarks:
		f.state.Draft.Marks = value
		f.state.Draft.Grade = grading.DeriveGradeText(value)
	case FieldName:
		f.state.Draft.Name = value
	case FieldSection:
		section, ok := models.ParseSection(value)
		if !ok {
			return fmt.Errorf("%w: %q", apperrors.ErrUnknownSection, value)
		}
		f.state.Draft.Section = section
	case FieldGrade:
		return fmt.Errorf("%w: %s", apperrors.ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownField, field)
	}

	delete(f.state.Errors, field)
	return nil
}

// Submit validates the draft and forwards it to the handler when clean.
// A non-nil error is only returned when the handler fails.
func (f *StudentForm) Submit(ctx context.Context) (Outcome, error) {
	if f.state.Loading {
		return OutcomeDisabled, nil
	}

	errs := Validate(f.state.Draft)
	f.state.Errors = errs
	if len(errs) > 0 {
		return OutcomeRejected, nil
	}

	return OutcomeSubmitted, f.handler.OnSubmit(ctx, f.state.Draft)
}

// Cancel hands control to the handler. It reports false when disabled.
func (f *StudentForm) Cancel() bool {
	if f.state.Loading {
		return false
	}
	f.handler.OnCancel()
	return true
}
