package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/auth"
	"github.com/yigit/buspass/internal/pkg/logger"
)

const (
	identityKey = "identity"

	// CSRFFieldName is the hidden form field carrying the CSRF token
	CSRFFieldName = "csrf_token"
	// CSRFHeaderName is accepted as an alternative to the form field
	CSRFHeaderName = "X-CSRF-Token"

	LoginPath = "/login/"
)

// AuthMiddleware gates the office screens behind a login session
type AuthMiddleware struct {
	authService services.AuthService
	cookieName  string
	csrfSecret  string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService, cookieName, csrfSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
		csrfSecret:  csrfSecret,
	}
}

// LoginRedirect is the login URL that returns to target afterwards
func LoginRedirect(target string) string {
	return LoginPath + "?next=" + url.QueryEscape(target)
}

// SessionAuth sends requests without a live session to the login page
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		identity, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrSessionInvalid, apperrors.ErrSessionExpired, apperrors.ErrSessionRevoked) {
				HandleError(c, err)
				c.Abort()
				return
			}
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected session")
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CSRFProtect rejects unsafe requests whose token does not match the session.
// It must run after SessionAuth.
func (m *AuthMiddleware) CSRFProtect() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		identity, ok := GetIdentity(c)
		if !ok {
			HandleError(c, apperrors.ErrCSRFTokenMismatch)
			c.Abort()
			return
		}

		token := c.PostForm(CSRFFieldName)
		if token == "" {
			token = c.GetHeader(CSRFHeaderName)
		}
		if !auth.VerifyCSRFToken(m.csrfSecret, identity.SessionID, token) {
			logger.Warn().Str("path", c.Request.URL.Path).Int64("userID", identity.UserID).Msg("CSRF token mismatch")
			HandleError(c, apperrors.ErrCSRFTokenMismatch)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity returns the signed-in user set by SessionAuth
func GetIdentity(c *gin.Context) (*services.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*services.Identity)
	return identity, ok && identity != nil
}

// SetIdentity stores identity on the request context
func SetIdentity(c *gin.Context, identity *services.Identity) {
	c.Set(identityKey, identity)
}
