package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/middleware"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/auth"
	"github.com/yigit/buspass/internal/web"
)

const secret = "mw-secret"

type stubAuth struct {
	identity *services.Identity
	err      error
}

func (s stubAuth) Login(context.Context, string, string) (*services.Session, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (s stubAuth) Authenticate(context.Context, string) (*services.Identity, error) {
	return s.identity, s.err
}

func (s stubAuth) Logout(context.Context, string) error { return nil }

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	identity := &services.Identity{UserID: 7, Username: "office", SessionID: "sid"}

	tests := []struct {
		name     string
		auth     stubAuth
		cookie   bool
		wantCode int
	}{
		{"no cookie", stubAuth{identity: identity}, false, http.StatusFound},
		{"expired", stubAuth{err: apperrors.ErrSessionExpired}, true, http.StatusFound},
		{"revoked", stubAuth{err: apperrors.ErrSessionRevoked}, true, http.StatusFound},
		{"store down", stubAuth{err: errors.New("redis: connection refused")}, true, http.StatusInternalServerError},
		{"valid", stubAuth{identity: identity}, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := middleware.NewAuthMiddleware(tt.auth, "sess", secret)
			r := newEngine()
			r.GET("/bus_routes/", mw.SessionAuth(), func(c *gin.Context) {
				got, ok := middleware.GetIdentity(c)
				require.True(t, ok)
				c.String(http.StatusOK, got.Username)
			})

			req := httptest.NewRequest(http.MethodGet, "/bus_routes/?x=1", nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: "sess", Value: "token"})
			}
			rec := serve(r, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusFound {
				assert.Equal(t, "/login/?next=%2Fbus_routes%2F%3Fx%3D1", rec.Header().Get("Location"))
			}
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "office", rec.Body.String())
			}
		})
	}
}

func TestCSRFProtect(t *testing.T) {
	identity := &services.Identity{UserID: 7, SessionID: "sid"}
	token := auth.CSRFToken(secret, "sid")
	mw := middleware.NewAuthMiddleware(stubAuth{identity: identity}, "sess", secret)

	r := newEngine()
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}, mw.CSRFProtect())
	r.GET("/form/", handler)
	r.POST("/form/", handler)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/form/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	post := func(body string, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/form/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(middleware.CSRFHeaderName, header)
		}
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusForbidden, post("", ""))
	assert.Equal(t, http.StatusForbidden, post(middleware.CSRFFieldName+"=nope", ""))
	assert.Equal(t, http.StatusForbidden, post("", auth.CSRFToken(secret, "other-session")))
	assert.Equal(t, http.StatusNoContent, post(middleware.CSRFFieldName+"="+token, ""))
	assert.Equal(t, http.StatusNoContent, post("", token))
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrStudentNotFound, http.StatusNotFound},
		{apperrors.ErrRouteNotFound, http.StatusNotFound},
		{apperrors.ErrCSRFTokenMismatch, http.StatusForbidden},
		{apperrors.NewBadRequestError("malformed"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		r := newEngine()
		r.GET("/", func(c *gin.Context) { middleware.HandleError(c, tt.err) })
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	}
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := newEngine()
	r.Use(middleware.Recovery(), middleware.SecurityHeaders())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	r.NoRoute(middleware.NotFound())

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/missing/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestFlashRoundTrip(t *testing.T) {
	r := newEngine()
	r.GET("/set", func(c *gin.Context) {
		middleware.SetFlash(c, "Bus route added successfully.")
		c.Status(http.StatusNoContent)
	})
	r.GET("/pop", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.PopFlash(c))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/set", nil))
	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "buspass_flash" {
			flash = c
		}
	}
	require.NotNil(t, flash)
	assert.True(t, flash.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(&http.Cookie{Name: flash.Name, Value: flash.Value})
	rec = serve(r, req)
	assert.Equal(t, "Bus route added successfully.", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/pop", nil))
	assert.Empty(t, rec.Body.String())
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/login/?next=%2F", middleware.LoginRedirect("/"))
	assert.Equal(t, "/login/?next=%2F%3Fq%3Da%26page%3D2", middleware.LoginRedirect("/?q=a&page=2"))
}
