package create_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/create"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Create(ctx context.Context, actor *models.User, kind models.Kind, req models.PostingCreateRequest) (int, error) {
	args := m.Called(ctx, actor, kind, req)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(t *testing.T, kind string, actor *models.User, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/postings/"+kind, &buf)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("kind", kind)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if actor != nil {
		ctx = context.WithValue(ctx, middlewarectx.UserKey, actor)
	}
	return req.WithContext(ctx)
}

func TestHandler(t *testing.T) {
	requester := &models.User{ID: "requester01", Role: models.RoleRequester}

	validBody := map[string]any{
		"title":       "중학생 대상 코딩 특강 요청",
		"description": "중학교 1학년 전체를 대상으로 하는 코딩 입문 특강입니다.",
		"audience":    "중학교 1학년",
		"mode":        "online",
		"date":        "2025-03-10",
		"start_time":  "14:00",
		"end_time":    "16:00",
		"fee":         200000,
	}

	cases := []struct {
		name       string
		kind       string
		actor      *models.User
		body       any
		setupMocks func(m *ServiceMock)
		wantCode   int
		wantError  string
	}{
		{
			name:  "success",
			kind:  "requests",
			actor: requester,
			body:  validBody,
			setupMocks: func(m *ServiceMock) {
				m.On("Create", mock.Anything, requester, models.KindLectureRequest,
					mock.AnythingOfType("models.PostingCreateRequest")).
					Return(12, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown kind",
			kind:      "lectures",
			actor:     requester,
			body:      validBody,
			wantCode:  http.StatusBadRequest,
			wantError: "unknown posting kind",
		},
		{
			name:      "no user in context",
			kind:      "requests",
			actor:     nil,
			body:      validBody,
			wantCode:  http.StatusUnauthorized,
			wantError: "unauthorized",
		},
		{
			name:     "missing title fails validation",
			kind:     "requests",
			actor:    requester,
			body:     map[string]any{"description": "설명", "audience": "대상", "mode": "online"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "wrong role is forbidden",
			kind:  "programs",
			actor: requester,
			body:  validBody,
			setupMocks: func(m *ServiceMock) {
				m.On("Create", mock.Anything, requester, models.KindProgram,
					mock.AnythingOfType("models.PostingCreateRequest")).
					Return(0, apperr.ErrForbidden).Once()
			},
			wantCode:  http.StatusForbidden,
			wantError: "could not create posting",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tc.setupMocks != nil {
				tc.setupMocks(svc)
			}

			handler := create.New(newNoopLogger(), svc)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tc.kind, tc.actor, tc.body))

			assert.Equal(t, tc.wantCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tc.wantCode == http.StatusOK {
				assert.Equal(t, "OK", resp.Status)
				assert.EqualValues(t, 12, resp.Data["posting_id"])
			} else if tc.wantError != "" {
				assert.Equal(t, tc.wantError, resp.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}
