package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	validToken := "test-token-123"
	middleware := AuthMiddleware(validToken)

	tests := []struct {
		name           string
		authHeader     string
		handlerCalled  bool
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			authHeader:     "Bearer test-token-123",
			handlerCalled:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid Token",
			authHeader:     "Bearer wrong-token",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Bearer Prefix",
			authHeader:     "test-token-123",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
