package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c
}

func TestGetClientIPForwardedFor(t *testing.T) {
	c := testContext(t)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(c))
}

func TestGetClientIPSkipsInvalidForwardedFor(t *testing.T) {
	c := testContext(t)
	c.Request.Header.Set("X-Forwarded-For", "not-an-ip")
	c.Request.Header.Set("X-Real-Ip", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", getClientIP(c))
}

func TestGetClientIPFallsBackToRemoteAddr(t *testing.T) {
	c := testContext(t)
	c.Request.RemoteAddr = "192.0.2.9:51234"
	assert.Equal(t, "192.0.2.9", getClientIP(c))
}

func TestAuditMiddlewareStoresIP(t *testing.T) {
	c := testContext(t)
	c.Request.Header.Set("X-Real-Ip", "198.51.100.4")

	AuditMiddleware()(c)

	assert.Equal(t, "198.51.100.4", GetIPFromContext(c))
}
