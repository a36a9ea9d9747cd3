package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/middleware"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/logger"
	"github.com/yigit/buspass/internal/pkg/validation"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles login and logout
type AuthController struct {
	authService services.AuthService
	cookie      CookieConfig
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

// LoginPage shows the login form
func (c *AuthController) LoginPage(ctx *gin.Context) {
	c.renderLogin(ctx, http.StatusOK, dto.LoginForm{Next: ctx.Query("next")}, nil)
}

// Login checks credentials and starts a session
func (c *AuthController) Login(ctx *gin.Context) {
	var form dto.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError("malformed form submission"))
		return
	}
	if form.Next == "" {
		form.Next = ctx.Query("next")
	}

	if errs := validation.Struct(form); errs.HasErrors() {
		c.renderLogin(ctx, http.StatusOK, form, errs)
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			errs := dto.NewValidationErrors().AddError(dto.NonFieldErrors, services.MsgInvalidLogin)
			c.renderLogin(ctx, http.StatusOK, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, session.Token, maxAge, "/", "", c.cookie.Secure, true)

	ctx.Redirect(http.StatusFound, SafeNext(form.Next))
}

// Logout ends the session, if any, and returns to the login page
func (c *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(c.cookie.Name); err == nil && token != "" {
		if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
			logger.Warn().Err(err).Msg("Failed to revoke session on logout")
		}
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}

func (c *AuthController) renderLogin(ctx *gin.Context, status int, form dto.LoginForm, errs *dto.ValidationErrors) {
	form.Password = ""
	render(ctx, status, "login.html", gin.H{
		"Title":  "Log in",
		"Form":   form,
		"Next":   form.Next,
		"Errors": errs,
	})
}

// SafeNext returns target when it is a path on this site, otherwise "/"
func SafeNext(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	if strings.HasPrefix(u.Path, middleware.LoginPath) {
		return "/"
	}
	return target
}
