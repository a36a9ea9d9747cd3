package middleware

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "buspass_flash"
	flashMaxAge = 60
)

// SetFlash queues a one-shot notification for the next page
func SetFlash(c *gin.Context, message string) {
	if message == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString([]byte(message)), flashMaxAge, "/", "", isSecure(c), true)
}

// PopFlash returns the pending notification and clears it
func PopFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", isSecure(c), true)

	msg, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(msg)
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
