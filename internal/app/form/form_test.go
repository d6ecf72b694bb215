package form

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

type recordingHandler struct {
	submitted []Draft
	cancelled int
	err       error
}

func (h *recordingHandler) OnSubmit(_ context.Context, record Draft) error {
	h.submitted = append(h.submitted, record)
	return h.err
}

func (h *recordingHandler) OnCancel() {
	h.cancelled++
}

func TestNewStudentFormCreateMode(t *testing.T) {
	f := NewStudentForm(nil, nil)

	if f.Mode() != ModeCreate {
		t.Fatalf("mode = %s, want create", f.Mode())
	}
	want := Draft{Name: "", Section: models.Section3CA, Marks: "", Grade: grading.GradeA}
	if f.Draft() != want {
		t.Fatalf("draft = %+v, want %+v", f.Draft(), want)
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("new form has errors: %v", f.Errors())
	}
	if f.Title() != "Add New Student" || f.SubmitLabel() != "Add Student" {
		t.Fatalf("unexpected labels %q / %q", f.Title(), f.SubmitLabel())
	}
}

func TestNewStudentFormEditMode(t *testing.T) {
	existing := models.Student{ID: 7, Name: "Bob", Section: models.Section3CB, Marks: 72.5, Grade: "B"}
	f := NewStudentForm(&existing, nil)

	if f.Mode() != ModeEdit || f.StudentID() != 7 {
		t.Fatalf("mode = %s id = %d", f.Mode(), f.StudentID())
	}
	want := Draft{Name: "Bob", Section: models.Section3CB, Marks: "72.5", Grade: grading.GradeB}
	if f.Draft() != want {
		t.Fatalf("draft = %+v, want %+v", f.Draft(), want)
	}
	if f.Title() != "Edit Student" || f.SubmitLabel() != "Update Student" {
		t.Fatalf("unexpected labels %q / %q", f.Title(), f.SubmitLabel())
	}
}

func TestChangeMarksDerivesGrade(t *testing.T) {
	f := NewStudentForm(nil, nil)

	steps := []struct {
		marks string
		grade grading.Grade
	}{
		{"95", grading.GradeAPlus},
		{"9", grading.GradeF},
		{"", grading.GradeF},
		{"-1", grading.GradeNone},
		{"abc", grading.GradeNone},
		{"61", grading.GradeC},
		{"95", grading.GradeAPlus},
	}
	for _, s := range steps {
		if err := f.Change(FieldMarks, s.marks); err != nil {
			t.Fatalf("Change(marks, %q): %v", s.marks, err)
		}
		d := f.Draft()
		if d.Marks != s.marks || d.Grade != s.grade {
			t.Fatalf("after %q draft = %+v, want grade %q", s.marks, d, s.grade)
		}
	}
}

func TestChangeOtherFieldsKeepGrade(t *testing.T) {
	f := NewStudentForm(nil, nil)
	_ = f.Change(FieldMarks, "75")

	if err := f.Change(FieldName, "Alice"); err != nil {
		t.Fatal(err)
	}
	if err := f.Change(FieldSection, "3CC"); err != nil {
		t.Fatal(err)
	}

	d := f.Draft()
	if d.Name != "Alice" || d.Section != models.Section3CC || d.Grade != grading.GradeB {
		t.Fatalf("draft = %+v", d)
	}
}

func TestChangeRejectsInvalidInput(t *testing.T) {
	f := NewStudentForm(nil, nil)

	if err := f.Change(FieldGrade, "A+"); !errors.Is(err, apperrors.ErrReadOnlyField) {
		t.Errorf("grade edit err = %v", err)
	}
	if err := f.Change(FieldSection, "4ZZ"); !errors.Is(err, apperrors.ErrUnknownSection) {
		t.Errorf("section edit err = %v", err)
	}
	if err := f.Change(Field("email"), "x"); !errors.Is(err, apperrors.ErrUnknownField) {
		t.Errorf("unknown field err = %v", err)
	}
	if f.Draft() != DefaultDraft() {
		t.Errorf("rejected edits changed the draft: %+v", f.Draft())
	}
}

func TestChangeClearsOnlyThatFieldError(t *testing.T) {
	h := &recordingHandler{}
	f := NewStudentForm(nil, h)

	if out, _ := f.Submit(context.Background()); out != OutcomeRejected {
		t.Fatalf("outcome = %s, want rejected", out)
	}
	if !f.Errors().Has(FieldName) || !f.Errors().Has(FieldMarks) {
		t.Fatalf("errors = %v", f.Errors())
	}

	// "A" is still too short but errors are not re-validated while typing
	_ = f.Change(FieldName, "A")
	if f.Errors().Has(FieldName) {
		t.Fatal("name error not cleared")
	}
	if !f.Errors().Has(FieldMarks) {
		t.Fatal("marks error cleared by a name edit")
	}
	if len(h.submitted) != 0 {
		t.Fatal("invalid draft was submitted")
	}
}

func TestSubmitValidDraft(t *testing.T) {
	h := &recordingHandler{}
	f := NewStudentForm(nil, h)
	_ = f.Change(FieldName, "Alice")
	_ = f.Change(FieldMarks, "85")

	out, err := f.Submit(context.Background())
	if err != nil || out != OutcomeSubmitted {
		t.Fatalf("Submit = %s, %v", out, err)
	}
	if len(h.submitted) != 1 {
		t.Fatalf("OnSubmit called %d times", len(h.submitted))
	}
	got := h.submitted[0]
	if got.Name != "Alice" || got.Marks != "85" || got.Grade != grading.GradeA || got.Section != models.Section3CA {
		t.Fatalf("submitted %+v", got)
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("errors after valid submit: %v", f.Errors())
	}
}

func TestSubmitPropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	h := &recordingHandler{err: boom}
	f := NewStudentForm(nil, h)
	_ = f.Change(FieldName, "Alice")
	_ = f.Change(FieldMarks, "85")

	out, err := f.Submit(context.Background())
	if out != OutcomeSubmitted || !errors.Is(err, boom) {
		t.Fatalf("Submit = %s, %v", out, err)
	}
}

func TestLoadingDisablesSubmitAndCancel(t *testing.T) {
	h := &recordingHandler{}
	f := NewStudentForm(nil, h)
	_ = f.Change(FieldName, "Alice")
	_ = f.Change(FieldMarks, "85")
	f.SetLoading(true)

	if f.SubmitLabel() != "Saving..." {
		t.Errorf("label = %q", f.SubmitLabel())
	}
	out, err := f.Submit(context.Background())
	if err != nil || out != OutcomeDisabled {
		t.Fatalf("Submit = %s, %v", out, err)
	}
	if f.Cancel() {
		t.Fatal("Cancel ran while loading")
	}
	if len(h.submitted) != 0 || h.cancelled != 0 {
		t.Fatalf("handler called while loading: %+v", h)
	}

	f.SetLoading(false)
	if !f.Cancel() || h.cancelled != 1 {
		t.Fatal("Cancel did not reach the handler")
	}
}

func TestHandlerFuncsNil(t *testing.T) {
	var h HandlerFuncs
	if err := h.OnSubmit(context.Background(), Draft{}); err != nil {
		t.Fatal(err)
	}
	h.OnCancel()
}

func TestViewAndRestore(t *testing.T) {
	f := NewStudentForm(nil, nil)
	_ = f.Change(FieldName, "A")
	_, _ = f.Submit(context.Background())

	v := f.View()
	if v.Errors["name"] == "" || len(v.Sections) != 3 || v.SubmitDisabled {
		t.Fatalf("view = %+v", v)
	}

	restored := Restore(f.State(), nil)
	if restored.Draft() != f.Draft() || !restored.Errors().Has(FieldName) {
		t.Fatalf("restored %+v", restored.State())
	}
}

func TestDraftStudent(t *testing.T) {
	s, err := Draft{Name: "  Alice ", Section: models.Section3CB, Marks: "85", Grade: grading.GradeA}.Student(3)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != 3 || s.Name != "Alice" || s.Marks != 85 || s.Grade != "A" || s.Section != models.Section3CB {
		t.Fatalf("student = %+v", s)
	}

	if _, err := (Draft{Marks: "x"}).Student(0); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}
}
