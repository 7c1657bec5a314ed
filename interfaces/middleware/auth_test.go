package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comment-insight/infrastructure/utils"
	"comment-insight/interfaces/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/clear_database", middleware.AdminAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return r
}

func call(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/clear_database", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthOpenWithoutSecret(t *testing.T) {
	w := call(newGuardedRouter(""), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth(t *testing.T) {
	const secret = "s3cret"
	valid, err := utils.GenerateToken(map[string]interface{}{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(map[string]interface{}{
		"sub": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, secret)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken(map[string]interface{}{"sub": "admin"}, "other")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, body: "Unauthorized"},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized, body: "Unauthorized"},
		{name: "malformed", header: "Bearer abc", status: http.StatusUnauthorized, body: "That's not even a token"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, body: "Timing is everything"},
		{name: "wrong key", header: "Bearer " + foreign, status: http.StatusUnauthorized, body: "Couldn't handle this token"},
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK, body: `"subject":"admin"`},
	}
	r := newGuardedRouter(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
