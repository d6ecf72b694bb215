package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/models/dto"
	"github.com/yigit/resultdesk/internal/app/services"
	"github.com/yigit/resultdesk/internal/middleware"
)

// FormController exposes student form sessions over JSON
type FormController struct {
	formService services.FormService
}

// NewFormController creates a new FormController
func NewFormController(formService services.FormService) *FormController {
	return &FormController{
		formService: formService,
	}
}

// OpenForm starts a form session
// @Summary Open a student form
// @Description Without studentId the form adds a new student, otherwise it edits the given one
// @Tags forms
// @Accept json
// @Produce json
// @Param request body dto.OpenFormRequest false "Student to edit"
// @Success 201 {object} dto.APIResponse{data=services.FormSession}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /forms [post]
func (c *FormController) OpenForm(ctx *gin.Context) {
	var req dto.OpenFormRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	sess, err := c.formService.Open(ctx, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(sess, ""))
}

// GetForm returns the current view of a form
// @Summary Get a student form
// @Tags forms
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} dto.APIResponse{data=services.FormSession}
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Router /forms/{formId} [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	sess, err := c.formService.Get(ctx, ctx.Param("formId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sess, ""))
}

// ChangeField applies one field edit
// @Summary Edit a form field
// @Description Editing marks re-derives the grade. The grade itself is read-only.
// @Tags forms
// @Accept json
// @Produce json
// @Param formId path string true "Form ID"
// @Param request body dto.FieldChangeRequest true "Field edit"
// @Success 200 {object} dto.APIResponse{data=services.FormSession}
// @Failure 400 {object} dto.ErrorResponse "Unknown or read-only field, or unknown section"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Router /forms/{formId}/fields [patch]
func (c *FormController) ChangeField(ctx *gin.Context) {
	var req dto.FieldChangeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sess, err := c.formService.Change(ctx, ctx.Param("formId"), services.Edit{Field: req.Field, Value: req.Value})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sess, ""))
}

// SubmitForm validates the form and saves the student
// @Summary Submit a student form
// @Tags forms
// @Produce json
// @Param formId path string true "Form ID"
// @Success 201 {object} dto.APIResponse{data=dto.FormSubmitResponse} "Student created"
// @Success 200 {object} dto.APIResponse{data=dto.FormSubmitResponse} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 409 {object} dto.ErrorResponse "Form is saving"
// @Failure 422 {object} dto.APIResponse{data=services.FormSession} "Validation failed"
// @Router /forms/{formId}/submit [post]
func (c *FormController) SubmitForm(ctx *gin.Context) {
	formID := ctx.Param("formId")
	res, err := c.formService.Submit(ctx, formID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if res.Outcome == form.OutcomeRejected {
		ctx.JSON(http.StatusUnprocessableEntity, dto.APIResponse{
			Success:   false,
			Data:      res.Session,
			Error:     dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(res.Session.Errors),
			Timestamp: time.Now(),
		})
		return
	}

	status, message := http.StatusOK, "Student updated successfully"
	if res.Created {
		status, message = http.StatusCreated, "Student created successfully"
	}
	ctx.JSON(status, dto.NewAPIResponse(dto.FormSubmitResponse{
		FormID:  formID,
		Created: res.Created,
		Student: dto.FromStudent(res.Student),
	}, message))
}

// CancelForm discards a form
// @Summary Cancel a student form
// @Tags forms
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 409 {object} dto.ErrorResponse "Form is saving"
// @Router /forms/{formId}/cancel [post]
func (c *FormController) CancelForm(ctx *gin.Context) {
	if err := c.formService.Cancel(ctx, ctx.Param("formId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Form cancelled"))
}
