package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/resultdesk/internal/app/export"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/app/models/dto"
	"github.com/yigit/resultdesk/internal/app/services"
	"github.com/yigit/resultdesk/internal/middleware"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
	"github.com/yigit/resultdesk/internal/pkg/helpers"
)

// StudentController handles student record endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student creation
// @Summary Create a student record
// @Description Validates the record and stores it with a grade derived from marks
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student := req.ToModel(0)
	if _, err := c.studentService.CreateStudent(ctx, student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromStudent(student), "Student created successfully"))
}

// GetStudentByID retrieves a student by ID
// @Summary Get a student record
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudent(student), ""))
}

// ListStudents returns one page of students
// @Summary List students
// @Description Lists students ordered by name, optionally filtered by section
// @Tags students
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Param section query string false "Section filter" Enums(3CA, 3CB, 3CC)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown section"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	filter, err := studentFilterFromQuery(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.studentService.ListStudents(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      dto.FromStudents(students),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, ""))
}

// UpdateStudent overwrites a student record
// @Summary Update a student record
// @Description Replaces name, section and marks; the grade is re-derived
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student := req.ToModel(id)
	if err := c.studentService.UpdateStudent(ctx, student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudent(student), "Student updated successfully"))
}

// DeleteStudent removes a student record
// @Summary Delete a student record
// @Tags students
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 204 "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ExportStudents downloads the students as a spreadsheet
// @Summary Export students
// @Description Writes every student matching the filter to an XLSX workbook
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param section query string false "Section filter" Enums(3CA, 3CB, 3CC)
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} dto.ErrorResponse "Unknown section"
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	filter, err := studentFilterFromQuery(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	students, err := allStudents(ctx, c.studentService, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileName := fmt.Sprintf("results_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Type", export.ContentTypeXLSX)
	ctx.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := export.WriteStudentsXLSX(ctx.Writer, students); err != nil {
		ctx.Error(err)
	}
}

// allStudents pages through every student matching filter
func allStudents(ctx context.Context, svc services.StudentService, filter models.StudentFilter) ([]*models.Student, error) {
	var out []*models.Student
	for offset := uint64(0); ; offset += helpers.MaxPageSize {
		page, total, err := svc.ListStudents(ctx, filter, offset, helpers.MaxPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < helpers.MaxPageSize || int64(len(out)) >= total {
			return out, nil
		}
	}
}

func studentFilterFromQuery(ctx *gin.Context) (models.StudentFilter, error) {
	var filter models.StudentFilter
	if raw, ok := ctx.GetQuery("section"); ok && raw != "" {
		section, valid := models.ParseSection(raw)
		if !valid {
			return filter, apperrors.ErrUnknownSection
		}
		filter.Section = &section
	}
	return filter, nil
}
