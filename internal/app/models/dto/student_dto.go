package dto

import (
	"time"

	"github.com/yigit/resultdesk/internal/app/models"
)

// StudentRequest is the body of create and update student calls.
// Grade is always derived from marks and is not accepted.
type StudentRequest struct {
	Name    string   `json:"name" binding:"required"`
	Section string   `json:"section" binding:"required,oneof=3CA 3CB 3CC"`
	Marks   *float64 `json:"marks" binding:"required"`
}

// ToModel converts the request into a student record with the given ID
func (r StudentRequest) ToModel(id int64) *models.Student {
	s := &models.Student{
		ID:      id,
		Name:    r.Name,
		Section: models.Section(r.Section),
	}
	if r.Marks != nil {
		s.Marks = *r.Marks
	}
	return s
}

// StudentResponse is a student record as returned by the API
type StudentResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Alice Martin"`
	Section   string    `json:"section" example:"3CA"`
	Marks     float64   `json:"marks" example:"85"`
	Grade     string    `json:"grade" example:"A"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// FromStudent converts a model.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Section:   string(s.Section),
		Marks:     s.Marks,
		Grade:     s.Grade,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromStudents converts a slice of students
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s))
	}
	return out
}
