package models

import "time"

// Student defines the student result record based on the 'students' table
type Student struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Alice Martin"`
	Section   Section   `json:"section" db:"section" example:"3CA"`
	Marks     float64   `json:"marks" db:"marks" example:"85"`
	Grade     string    `json:"grade" db:"grade" example:"A"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// StudentFilter narrows a student listing
type StudentFilter struct {
	Section *Section
}
