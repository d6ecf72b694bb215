package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/resultdesk/internal/app/controllers"
	"github.com/yigit/resultdesk/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	formController *controllers.FormController,
	pageController *controllers.PageController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Student records
	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/export", studentController.ExportStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	// Form sessions
	forms := v1.Group("/forms")
	{
		forms.POST("", formController.OpenForm)
		forms.GET("/:formId", formController.GetForm)
		forms.PATCH("/:formId/fields", formController.ChangeField) // Change Handler
		forms.POST("/:formId/submit", formController.SubmitForm)
		forms.POST("/:formId/cancel", formController.CancelForm)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}, ""))
	})

	// Server-rendered pages
	pages := router.Group("/students")
	{
		pages.GET("/new", pageController.NewStudent)
		pages.GET("/:id/edit", pageController.EditStudent)
		pages.POST("/form", pageController.SubmitForm)
		pages.POST("/form/cancel", pageController.CancelForm)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
