package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/middleware"
	"github.com/yigit/buspass/internal/pkg/apperrors"
)

// BusPassController handles pass issuing and the receipt download
type BusPassController struct {
	busPassService services.BusPassService
	studentService services.StudentService
	receiptService services.ReceiptService
}

// NewBusPassController creates a new BusPassController
func NewBusPassController(busPassService services.BusPassService, studentService services.StudentService, receiptService services.ReceiptService) *BusPassController {
	return &BusPassController{
		busPassService: busPassService,
		studentService: studentService,
		receiptService: receiptService,
	}
}

// IssuePassPage shows an empty issue-pass form
func (c *BusPassController) IssuePassPage(ctx *gin.Context) {
	c.renderIssuePass(ctx, dto.PassForm{}, nil)
}

// IssuePass handles the issue-pass form
func (c *BusPassController) IssuePass(ctx *gin.Context) {
	var form dto.PassForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError("malformed form submission"))
		return
	}

	result, err := c.busPassService.IssuePass(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	if !result.Succeeded() {
		c.renderIssuePass(ctx, form, result.Errors)
		return
	}

	redirect(ctx, result)
}

func (c *BusPassController) renderIssuePass(ctx *gin.Context, form dto.PassForm, errs *dto.ValidationErrors) {
	students, err := c.studentService.StudentOptions(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	data := gin.H{
		"Title":    "Issue Bus Pass",
		"Form":     form,
		"Students": students,
	}
	if errs.HasErrors() {
		renderForm(ctx, http.StatusOK, "issue_bus_pass.html", data, errs)
		return
	}
	render(ctx, http.StatusOK, "issue_bus_pass.html", data)
}

// DownloadPass streams the PDF receipt of a student
func (c *BusPassController) DownloadPass(ctx *gin.Context) {
	studentID, err := strconv.ParseInt(ctx.Param("student_id"), 10, 64)
	if err != nil || studentID <= 0 {
		middleware.HandleError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	receipt, err := c.receiptService.BuildReceipt(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, receipt.Filename))
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "application/pdf", receipt.PDF)
}
