package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/login"
	"github.com/lecturelink/lecture-match/internal/models"
	"github.com/lecturelink/lecture-match/internal/services/auth"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Login(ctx context.Context, id, rawPassword string) (*auth.TokenPair, *models.User, error) {
	args := m.Called(ctx, id, rawPassword)
	var pair *auth.TokenPair
	if args.Get(0) != nil {
		pair = args.Get(0).(*auth.TokenPair)
	}
	var user *models.User
	if args.Get(1) != nil {
		user = args.Get(1).(*models.User)
	}
	return pair, user, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		setupMocks func(m *ServiceMock)
		wantCode   int
		wantData   map[string]any
	}{
		{
			name: "success",
			body: `{"user_id":"instructor01","user_password":"secret123"}`,
			setupMocks: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "instructor01", "secret123").
					Return(
						&auth.TokenPair{AccessToken: "access.jwt", RefreshToken: "refresh.jwt"},
						&models.User{ID: "instructor01", Role: models.RoleInstructor},
						nil,
					).Once()
			},
			wantCode: http.StatusOK,
			wantData: map[string]any{
				"access_token":  "access.jwt",
				"refresh_token": "refresh.jwt",
				"user_id":       "instructor01",
				"user_role":     "instructor",
			},
		},
		{
			name:     "malformed json",
			body:     `{"user_id":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "short password fails validation",
			body:     `{"user_id":"instructor01","user_password":"abc"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "wrong credentials",
			body: `{"user_id":"instructor01","user_password":"wrongpass"}`,
			setupMocks: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "instructor01", "wrongpass").
					Return(nil, nil, apperr.ErrUnauthenticated).Once()
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tc.setupMocks != nil {
				tc.setupMocks(svc)
			}

			handler := login.New(newNoopLogger(), svc)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)

			if tc.wantCode == http.StatusOK {
				var resp struct {
					Status string         `json:"status"`
					Data   map[string]any `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "OK", resp.Status)
				for key, want := range tc.wantData {
					assert.Equal(t, want, resp.Data[key])
				}
			}
			svc.AssertExpectations(t)
		})
	}
}
