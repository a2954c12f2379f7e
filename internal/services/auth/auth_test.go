package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/lib/jwt"
	"github.com/lecturelink/lecture-match/internal/lib/password"
	"github.com/lecturelink/lecture-match/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *UsersMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByNameEmail(ctx context.Context, name, email string) (*models.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByIDEmail(ctx context.Context, id, email string) (*models.User, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *UsersMock) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestMaker() jwt.Maker {
	return jwt.NewMaker("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func notFound() error {
	return fmt.Errorf("user: %w", apperr.ErrNotFound)
}

var signup = models.SignupRequest{
	ID:       "instructor01",
	Name:     "이강사",
	Password: "secret123",
	Phone:    "01087654321",
	Email:    "instructor@example.com",
	Role:     "instructor",
}

func TestService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").Return(nil, notFound()).Once()
		users.On("GetUserByEmail", mock.Anything, "instructor@example.com").Return(nil, notFound()).Once()
		users.On("GetUserByPhone", mock.Anything, "01087654321").Return(nil, notFound()).Once()
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.ID == "instructor01" &&
				u.Role == models.RoleInstructor &&
				u.PasswordHash != "secret123" &&
				password.CompareHash(u.PasswordHash, "secret123") == nil
		})).Return(nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		require.NoError(t, svc.Register(context.Background(), signup))
		users.AssertExpectations(t)
	})

	t.Run("taken id is a conflict", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").
			Return(&models.User{ID: "instructor01"}, nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		err := svc.Register(context.Background(), signup)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		users.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("taken email is a conflict", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").Return(nil, notFound()).Once()
		users.On("GetUserByEmail", mock.Anything, "instructor@example.com").
			Return(&models.User{ID: "someoneelse1"}, nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		err := svc.Register(context.Background(), signup)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		users.AssertNotCalled(t, "GetUserByPhone", mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	account := &models.User{
		ID:           "instructor01",
		PasswordHash: hash,
		Role:         models.RoleInstructor,
	}

	t.Run("success issues both tokens", func(t *testing.T) {
		users := new(UsersMock)
		row := *account
		users.On("GetUser", mock.Anything, "instructor01").Return(&row, nil).Once()

		maker := newTestMaker()
		svc := New(users, maker, newNoopLogger())
		pair, user, err := svc.Login(context.Background(), "instructor01", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "instructor01", user.ID)

		claims, err := maker.ParseToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.UseAccess, claims.TokenUse)
		assert.Equal(t, "instructor01", claims.Subject)

		claims, err = maker.ParseToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.UseRefresh, claims.TokenUse)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(UsersMock)
		row := *account
		users.On("GetUser", mock.Anything, "instructor01").Return(&row, nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		_, _, err := svc.Login(context.Background(), "instructor01", "wrongpass")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "nobody01").Return(nil, notFound()).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		_, _, err := svc.Login(context.Background(), "nobody01", "secret123")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("disabled account", func(t *testing.T) {
		users := new(UsersMock)
		row := *account
		row.Disabled = true
		users.On("GetUser", mock.Anything, "instructor01").Return(&row, nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		_, _, err := svc.Login(context.Background(), "instructor01", "secret123")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestService_Refresh(t *testing.T) {
	maker := newTestMaker()

	t.Run("refresh token yields a fresh access token", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").
			Return(&models.User{ID: "instructor01"}, nil).Once()

		refresh, err := maker.GenerateRefreshToken("instructor01")
		require.NoError(t, err)

		svc := New(users, maker, newNoopLogger())
		access, err := svc.Refresh(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := maker.ParseToken(access)
		require.NoError(t, err)
		assert.Equal(t, jwt.UseAccess, claims.TokenUse)
		assert.Equal(t, "instructor01", claims.Subject)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		access, err := maker.GenerateAccessToken("instructor01")
		require.NoError(t, err)

		svc := New(new(UsersMock), maker, newNoopLogger())
		_, err = svc.Refresh(context.Background(), access)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := New(new(UsersMock), maker, newNoopLogger())
		_, err := svc.Refresh(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestService_FindID(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByNameEmail", mock.Anything, "이강사", "instructor@example.com").
		Return(&models.User{ID: "instructor01"}, nil).Once()

	svc := New(users, newTestMaker(), newNoopLogger())
	masked, err := svc.FindID(context.Background(), "이강사", "instructor@example.com")
	require.NoError(t, err)
	assert.Equal(t, "instructo***", masked)
}

func TestMaskID(t *testing.T) {
	assert.Equal(t, "instructo***", maskID("instructor01"))
	assert.Equal(t, "***", maskID("abc"))
	assert.Equal(t, "***", maskID("ab"))
	assert.Equal(t, "강***", maskID("강사아이디"))
}

func TestService_FindPassword(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByIDEmail", mock.Anything, "instructor01", "instructor@example.com").
		Return(&models.User{ID: "instructor01"}, nil).Once()

	var storedHash string
	users.On("UpdatePassword", mock.Anything, "instructor01", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(nil).Once()

	svc := New(users, newTestMaker(), newNoopLogger())
	temp, err := svc.FindPassword(context.Background(), "instructor01", "instructor@example.com")
	require.NoError(t, err)
	assert.Len(t, temp, password.TempLength)
	assert.NoError(t, password.CompareHash(storedHash, temp))
	users.AssertExpectations(t)
}

func TestService_CheckAvailable(t *testing.T) {
	t.Run("free id", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "newuser01").Return(nil, notFound()).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		available, err := svc.CheckAvailable(context.Background(), "id", "newuser01")
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("taken email", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByEmail", mock.Anything, "instructor@example.com").
			Return(&models.User{ID: "instructor01"}, nil).Once()

		svc := New(users, newTestMaker(), newNoopLogger())
		available, err := svc.CheckAvailable(context.Background(), "email", "instructor@example.com")
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("unknown field", func(t *testing.T) {
		svc := New(new(UsersMock), newTestMaker(), newNoopLogger())
		_, err := svc.CheckAvailable(context.Background(), "nickname", "whatever")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_ValidateToken(t *testing.T) {
	maker := newTestMaker()

	t.Run("access token resolves the user", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").
			Return(&models.User{ID: "instructor01", Role: models.RoleInstructor}, nil).Once()

		access, err := maker.GenerateAccessToken("instructor01")
		require.NoError(t, err)

		svc := New(users, maker, newNoopLogger())
		user, err := svc.ValidateToken(context.Background(), access)
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstructor, user.Role)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		refresh, err := maker.GenerateRefreshToken("instructor01")
		require.NoError(t, err)

		svc := New(new(UsersMock), maker, newNoopLogger())
		_, err = svc.ValidateToken(context.Background(), refresh)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("disabled user is rejected", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "instructor01").
			Return(&models.User{ID: "instructor01", Disabled: true}, nil).Once()

		access, err := maker.GenerateAccessToken("instructor01")
		require.NoError(t, err)

		svc := New(users, maker, newNoopLogger())
		_, err = svc.ValidateToken(context.Background(), access)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}
