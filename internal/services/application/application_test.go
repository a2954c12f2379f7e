package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateApplication(ctx context.Context, a models.Application) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}
func (m *RepoMock) UpdateApplication(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *RepoMock) DeleteApplication(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) DecideApplication(ctx context.Context, id int, actorID string, status models.Status) error {
	return m.Called(ctx, id, actorID, status).Error(0)
}
func (m *RepoMock) ListApplicationsForPosting(ctx context.Context, postingID int) ([]*models.Application, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}
func (m *RepoMock) ListApplicationsByApplicant(ctx context.Context, kind models.Kind, applicantID string) ([]*models.ApplicantEntry, error) {
	args := m.Called(ctx, kind, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ApplicantEntry), args.Error(1)
}
func (m *RepoMock) GetPosting(ctx context.Context, id int) (*models.Posting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Posting), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var requester = &models.User{
	ID:    "requester01",
	Name:  "김요청",
	Phone: "01012345678",
	Email: "requester@example.com",
	Role:  models.RoleRequester,
}
var instructor = &models.User{
	ID:    "instructor01",
	Name:  "이강사",
	Phone: "01087654321",
	Email: "instructor@example.com",
	Role:  models.RoleInstructor,
}

func TestService_Create(t *testing.T) {
	posting := &models.Posting{
		ID:      12,
		Kind:    models.KindLectureRequest,
		OwnerID: "requester01",
		Title:   "중학생 대상 코딩 특강",
	}

	t.Run("snapshots are copied from posting and applicant", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()
		repo.On("CreateApplication", mock.Anything, mock.MatchedBy(func(a models.Application) bool {
			return a.Status == models.StatusPending &&
				a.PostingID == 12 &&
				a.ApplicantID == "instructor01" &&
				a.PostingTitle == "중학생 대상 코딩 특강" &&
				a.ApplicantName == "이강사" &&
				a.ApplicantPhone == "01087654321" &&
				a.ApplicantEmail == "instructor@example.com"
		})).Return(44, nil).Once()

		svc := New(repo, newNoopLogger())
		id, err := svc.Create(context.Background(), instructor, models.KindLectureRequest,
			models.ApplicationCreateRequest{PostingID: 12})
		require.NoError(t, err)
		assert.Equal(t, 44, id)
		repo.AssertExpectations(t)
	})

	t.Run("owner role cannot apply", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), requester, models.KindLectureRequest,
			models.ApplicationCreateRequest{PostingID: 12})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("duplicate application surfaces as conflict", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()
		repo.On("CreateApplication", mock.Anything, mock.Anything).
			Return(0, fmt.Errorf("duplicate application: %w", apperr.ErrConflict)).Once()

		svc := New(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), instructor, models.KindLectureRequest,
			models.ApplicationCreateRequest{PostingID: 12})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("posting of the other kind is not found", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()

		svc := New(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), requester, models.KindProgram,
			models.ApplicationCreateRequest{PostingID: 12})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Decide(t *testing.T) {
	app := &models.Application{
		ID:          44,
		Kind:        models.KindLectureRequest,
		PostingID:   12,
		ApplicantID: "instructor01",
		Status:      models.StatusPending,
	}

	t.Run("owner accepts", func(t *testing.T) {
		repo := new(RepoMock)
		row := *app
		repo.On("GetApplication", mock.Anything, 44).Return(&row, nil).Once()
		repo.On("DecideApplication", mock.Anything, 44, "requester01", models.StatusAccepted).
			Return(nil).Once()

		svc := New(repo, newNoopLogger())
		require.NoError(t, svc.Accept(context.Background(), requester, models.KindLectureRequest, 44))
		repo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		row := *app
		repo.On("GetApplication", mock.Anything, 44).Return(&row, nil).Once()
		repo.On("DecideApplication", mock.Anything, 44, "requester99", models.StatusRejected).
			Return(fmt.Errorf("not the posting owner: %w", apperr.ErrForbidden)).Once()

		svc := New(repo, newNoopLogger())
		other := &models.User{ID: "requester99", Role: models.RoleRequester}
		err := svc.Reject(context.Background(), other, models.KindLectureRequest, 44)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("re-deciding a decided application is a conflict", func(t *testing.T) {
		repo := new(RepoMock)
		row := *app
		row.Status = models.StatusAccepted
		repo.On("GetApplication", mock.Anything, 44).Return(&row, nil).Once()
		repo.On("DecideApplication", mock.Anything, 44, "requester01", models.StatusRejected).
			Return(fmt.Errorf("application already decided: %w", apperr.ErrConflict)).Once()

		svc := New(repo, newNoopLogger())
		err := svc.Reject(context.Background(), requester, models.KindLectureRequest, 44)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestService_Update(t *testing.T) {
	app := &models.Application{
		ID:          44,
		Kind:        models.KindLectureRequest,
		PostingID:   12,
		ApplicantID: "instructor01",
		Status:      models.StatusPending,
	}

	t.Run("applicant edits proposal fee", func(t *testing.T) {
		repo := new(RepoMock)
		row := *app
		fee := 250000
		repo.On("GetApplication", mock.Anything, 44).Return(&row, nil).Once()
		repo.On("UpdateApplication", mock.Anything, mock.MatchedBy(func(a *models.Application) bool {
			return a.Fee != nil && *a.Fee == fee && a.Status == models.StatusPending
		})).Return(nil).Once()

		svc := New(repo, newNoopLogger())
		err := svc.Update(context.Background(), instructor, models.KindLectureRequest, 44,
			models.ApplicationUpdateRequest{Fee: &fee})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		row := *app
		repo.On("GetApplication", mock.Anything, 44).Return(&row, nil).Once()

		svc := New(repo, newNoopLogger())
		other := &models.User{ID: "instructor99", Role: models.RoleInstructor}
		err := svc.Update(context.Background(), other, models.KindLectureRequest, 44,
			models.ApplicationUpdateRequest{})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestService_Withdraw(t *testing.T) {
	repo := new(RepoMock)
	// withdrawal is allowed even after acceptance
	repo.On("GetApplication", mock.Anything, 44).Return(&models.Application{
		ID:          44,
		Kind:        models.KindLectureRequest,
		ApplicantID: "instructor01",
		Status:      models.StatusAccepted,
	}, nil).Once()
	repo.On("DeleteApplication", mock.Anything, 44).Return(nil).Once()

	svc := New(repo, newNoopLogger())
	require.NoError(t, svc.Withdraw(context.Background(), instructor, models.KindLectureRequest, 44))
	repo.AssertExpectations(t)
}

func TestService_ListForPosting(t *testing.T) {
	posting := &models.Posting{ID: 12, Kind: models.KindLectureRequest, OwnerID: "requester01"}

	t.Run("owner sees matching labels", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()
		repo.On("ListApplicationsForPosting", mock.Anything, 12).Return([]*models.Application{
			{ID: 1, Status: models.StatusPending},
			{ID: 2, Status: models.StatusAccepted},
			{ID: 3, Status: models.StatusRejected},
		}, nil).Once()

		svc := New(repo, newNoopLogger())
		apps, err := svc.ListForPosting(context.Background(), requester, models.KindLectureRequest, 12)
		require.NoError(t, err)
		require.Len(t, apps, 3)
		assert.Equal(t, "대기", apps[0].MatchingStatus)
		assert.Equal(t, "매칭 완료", apps[1].MatchingStatus)
		assert.Equal(t, "매칭 실패", apps[2].MatchingStatus)
	})

	t.Run("empty list is allowed", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()
		repo.On("ListApplicationsForPosting", mock.Anything, 12).
			Return([]*models.Application{}, nil).Once()

		svc := New(repo, newNoopLogger())
		apps, err := svc.ListForPosting(context.Background(), requester, models.KindLectureRequest, 12)
		require.NoError(t, err)
		assert.Empty(t, apps)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		row := *posting
		repo.On("GetPosting", mock.Anything, 12).Return(&row, nil).Once()

		svc := New(repo, newNoopLogger())
		_, err := svc.ListForPosting(context.Background(), instructor, models.KindLectureRequest, 12)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestService_ListForApplicant(t *testing.T) {
	t.Run("wrong role is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newNoopLogger())
		_, err := svc.ListForApplicant(context.Background(), requester, models.KindLectureRequest)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("zero applications is not found", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListApplicationsByApplicant", mock.Anything, models.KindLectureRequest, "instructor01").
			Return([]*models.ApplicantEntry{}, nil).Once()

		svc := New(repo, newNoopLogger())
		_, err := svc.ListForApplicant(context.Background(), instructor, models.KindLectureRequest)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
