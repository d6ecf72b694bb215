package dto

// OpenFormRequest opens a form. Without studentId the form creates a new record.
type OpenFormRequest struct {
	StudentID int64 `json:"studentId" binding:"omitempty,gt=0"`
}

// FieldChangeRequest is one edit of a form input
type FieldChangeRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// FormSubmitResponse is returned when a submitted form was saved
type FormSubmitResponse struct {
	FormID  string          `json:"formId"`
	Created bool            `json:"created"`
	Student StudentResponse `json:"student"`
}
