package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/services"
	"github.com/yigit/resultdesk/internal/middleware"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
	"github.com/yigit/resultdesk/internal/pkg/helpers"
)

// Page templates
const (
	formPage    = "student_form.html"
	messagePage = "message.html"
)

// formPageData is the model of formPage
type formPageData struct {
	Form    *services.FormSession
	Message string
}

// PageController serves the HTML student pages
type PageController struct {
	formService services.FormService
	logger      zerolog.Logger
}

// NewPageController creates a new PageController
func NewPageController(formService services.FormService, logger zerolog.Logger) *PageController {
	return &PageController{
		formService: formService,
		logger:      logger,
	}
}

// NewStudent opens a create-mode form and renders it
func (c *PageController) NewStudent(ctx *gin.Context) {
	c.openForm(ctx, 0)
}

// EditStudent opens an edit-mode form for the student in the path
func (c *PageController) EditStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	c.openForm(ctx, id)
}

func (c *PageController) openForm(ctx *gin.Context, studentID int64) {
	sess, err := c.formService.Open(ctx, studentID)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, formPage, formPageData{Form: sess})
}

// SubmitForm applies the posted fields to the form, then submits it
func (c *PageController) SubmitForm(ctx *gin.Context) {
	formID := ctx.PostForm("formId")

	var edits []services.Edit
	for _, field := range []form.Field{form.FieldName, form.FieldSection, form.FieldMarks} {
		if value, ok := ctx.GetPostForm(string(field)); ok {
			edits = append(edits, services.Edit{Field: string(field), Value: value})
		}
	}

	if len(edits) > 0 {
		if _, err := c.formService.Change(ctx, formID, edits...); err != nil {
			c.renderFormError(ctx, formID, err)
			return
		}
	}

	res, err := c.formService.Submit(ctx, formID)
	if err != nil {
		c.renderFormError(ctx, formID, err)
		return
	}

	if res.Outcome == form.OutcomeRejected {
		ctx.HTML(http.StatusUnprocessableEntity, formPage, formPageData{Form: res.Session})
		return
	}

	ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/students/%d/edit", res.Student.ID))
}

// CancelForm discards the posted form
func (c *PageController) CancelForm(ctx *gin.Context) {
	formID := ctx.PostForm("formId")
	if err := c.formService.Cancel(ctx, formID); err != nil && !errors.Is(err, apperrors.ErrFormNotFound) {
		c.renderFormError(ctx, formID, err)
		return
	}
	ctx.HTML(http.StatusOK, messagePage, gin.H{"Heading": "Cancelled", "Message": "No changes were saved."})
}

// renderFormError shows err above the form when the form still exists
func (c *PageController) renderFormError(ctx *gin.Context, formID string, err error) {
	status, detail := middleware.ErrorDetailFor(err)
	if errors.Is(err, apperrors.ErrFormNotFound) {
		c.renderError(ctx, err)
		return
	}

	sess, getErr := c.formService.Get(ctx, formID)
	if getErr != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.HTML(status, formPage, formPageData{Form: sess, Message: detail.Message})
}

func (c *PageController) renderError(ctx *gin.Context, err error) {
	status, detail := middleware.ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		c.logger.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Page request failed")
	}
	ctx.HTML(status, messagePage, gin.H{"Heading": "Something went wrong", "Message": detail.Message, "Error": true})
}
