package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/middleware"
	"github.com/yigit/buspass/internal/pkg/apperrors"
)

// StudentController handles the student listing and registration screens
type StudentController struct {
	studentService services.StudentService
	routeService   services.RouteService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, routeService services.RouteService) *StudentController {
	return &StudentController{
		studentService: studentService,
		routeService:   routeService,
	}
}

// Home lists students, filtered by ?q= and paged by ?page=
func (c *StudentController) Home(ctx *gin.Context) {
	page, err := c.studentService.ListStudents(ctx.Request.Context(), ctx.Query("q"), ctx.Query("page"))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	render(ctx, http.StatusOK, "home.html", gin.H{
		"Title": "Students",
		"Page":  page,
	})
}

// AddStudentPage shows an empty add-student form
func (c *StudentController) AddStudentPage(ctx *gin.Context) {
	c.renderAddStudent(ctx, dto.StudentForm{}, nil)
}

// AddStudent handles the add-student form
func (c *StudentController) AddStudent(ctx *gin.Context) {
	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError("malformed form submission"))
		return
	}

	result, err := c.studentService.CreateStudent(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	if !result.Succeeded() {
		c.renderAddStudent(ctx, form, result.Errors)
		return
	}

	redirect(ctx, result)
}

func (c *StudentController) renderAddStudent(ctx *gin.Context, form dto.StudentForm, errs *dto.ValidationErrors) {
	routes, err := c.routeService.ListRoutes(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	data := gin.H{
		"Title":  "Add Student",
		"Form":   form,
		"Routes": routes,
	}
	if errs.HasErrors() {
		renderForm(ctx, http.StatusOK, "add_student.html", data, errs)
		return
	}
	render(ctx, http.StatusOK, "add_student.html", data)
}
