package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nutriapp/internal/feature/auth/usecase"
)

type mockResolver struct {
	ResolveFunc func(ctx context.Context, token string) (uint, error)
}

func (m *mockResolver) Resolve(ctx context.Context, token string) (uint, error) {
	return m.ResolveFunc(ctx, token)
}

func TestSessionRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := &mockResolver{ResolveFunc: func(ctx context.Context, token string) (uint, error) {
		switch token {
		case "good":
			return 42, nil
		case "revoked":
			return 0, usecase.ErrSessionRevoked
		case "store-down":
			return 0, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
		}
		return 0, usecase.ErrSessionNotFound
	}}

	tests := []struct {
		name           string
		cookie         *http.Cookie
		expectedStatus int
		expectedBody   string
	}{
		{"valid session", &http.Cookie{Name: "session", Value: "good"}, http.StatusOK, `{"user_id":42}`},
		{"missing cookie", nil, http.StatusUnauthorized, `{"error":"No autorizado"}`},
		{"empty cookie", &http.Cookie{Name: "session", Value: ""}, http.StatusUnauthorized, `{"error":"No autorizado"}`},
		{"unknown token", &http.Cookie{Name: "session", Value: "bad"}, http.StatusUnauthorized, `{"error":"No autorizado"}`},
		{"revoked session", &http.Cookie{Name: "session", Value: "revoked"}, http.StatusUnauthorized, `{"error":"No autorizado"}`},
		{"other cookie name", &http.Cookie{Name: "sid", Value: "good"}, http.StatusUnauthorized, `{"error":"No autorizado"}`},
		{"session store unreachable", &http.Cookie{Name: "session", Value: "store-down"}, http.StatusInternalServerError, `{"error":"Error interno del servidor"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerRan := false
			r := gin.New()
			r.GET("/protected", SessionRequired(resolver, ""), func(c *gin.Context) {
				handlerRan = true
				id, ok := UserID(c)
				assert.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"user_id": id})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedStatus == http.StatusOK, handlerRan)
		})
	}
}

func TestUserID_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)

	c.Set(ContextUserID, "not-a-uint")
	_, ok = UserID(c)
	assert.False(t, ok)
}
