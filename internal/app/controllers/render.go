package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/middleware"
)

// MsgFormInvalid is the page alert shown above a form with errors
const MsgFormInvalid = "Please correct the errors in the form."

// render fills in what every page needs and writes the template
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if identity, ok := middleware.GetIdentity(ctx); ok {
		data["User"] = identity
		data["CSRFToken"] = identity.CSRFToken
	}
	data["Flash"] = middleware.PopFlash(ctx)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = (*dto.ValidationErrors)(nil)
	}
	ctx.HTML(status, name, data)
}

// renderForm re-renders a rejected form with its errors
func renderForm(ctx *gin.Context, status int, name string, data gin.H, errs *dto.ValidationErrors) {
	data["Errors"] = errs
	data["FormAlert"] = MsgFormInvalid
	render(ctx, status, name, data)
}

// redirect follows a successful form submission
func redirect(ctx *gin.Context, result dto.FormResult) {
	middleware.SetFlash(ctx, result.Message)
	ctx.Redirect(http.StatusFound, result.Redirect)
}
