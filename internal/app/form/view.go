package form

import "github.com/yigit/resultdesk/internal/app/models"

// View is what a renderer needs to draw the form
type View struct {
	Mode           Mode              `json:"mode"`
	StudentID      int64             `json:"studentId,omitempty"`
	Title          string            `json:"title"`
	SubmitLabel    string            `json:"submitLabel"`
	Draft          Draft             `json:"draft"`
	Errors         map[string]string `json:"errors"`
	Sections       []models.Section  `json:"sections"`
	Loading        bool              `json:"loading"`
	SubmitDisabled bool              `json:"submitDisabled"`
	CancelDisabled bool              `json:"cancelDisabled"`
}

// Title is the form heading
func (f *StudentForm) Title() string {
	if f.state.Mode == ModeEdit {
		return "Edit Student"
	}
	return "Add New Student"
}

// SubmitLabel is the caption of the submit button
func (f *StudentForm) SubmitLabel() string {
	switch {
	case f.state.Loading:
		return "Saving..."
	case f.state.Mode == ModeEdit:
		return "Update Student"
	default:
		return "Add Student"
	}
}

// View builds the render model of the form
func (f *StudentForm) View() View {
	return View{
		Mode:           f.state.Mode,
		StudentID:      f.state.StudentID,
		Title:          f.Title(),
		SubmitLabel:    f.SubmitLabel(),
		Draft:          f.state.Draft,
		Errors:         f.state.Errors.Messages(),
		Sections:       append([]models.Section(nil), models.Sections...),
		Loading:        f.state.Loading,
		SubmitDisabled: f.state.Loading,
		CancelDisabled: f.state.Loading,
	}
}
