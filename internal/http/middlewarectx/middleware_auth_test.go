package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		user, ok := middlewarectx.UserFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "instructor01", user.ID)
		assert.Equal(t, models.RoleInstructor, user.Role)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer badtoken",
			mockUser:       nil,
			mockErr:        errors.New("invalid token"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockUser:       &models.User{ID: "instructor01", Role: models.RoleInstructor},
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			if tt.authHeader != "" && tt.authHeader != "Basic sometoken" {
				token := tt.authHeader[len("Bearer "):]
				authMock.On("ValidateToken", mock.Anything, token).Return(tt.mockUser, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}
