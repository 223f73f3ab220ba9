package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) UpdateProfile(ctx context.Context, id, fullName, organizationName, role string) (*models.User, error) {
	args := m.Called(ctx, id, fullName, organizationName, role)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) UpdateSettings(ctx context.Context, id string, emailNotifications, twoFactorEnabled bool) (*models.User, error) {
	args := m.Called(ctx, id, emailNotifications, twoFactorEnabled)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) UpdateAccountStatus(ctx context.Context, id, status string) (*models.User, error) {
	args := m.Called(ctx, id, status)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]models.User)
	return users, args.Int(1), args.Error(2)
}

func newTestService(repo *RepoMock) *Service {
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}

func adminUser(id string) *models.User {
	return &models.User{ID: id, IsAdmin: true, AccountStatus: models.StatusActive, PasswordHash: "digest"}
}

func regularUser(id string) *models.User {
	return &models.User{ID: id, AccountStatus: models.StatusActive, PasswordHash: "digest"}
}

func TestGetProfile_StripsPasswordHash(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetUserByID", mock.Anything, "uid-1").Return(regularUser("uid-1"), nil).Once()

	u, err := svc.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
}

func TestUpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name             string
		fullName         string
		organizationName string
		role             string
	}{
		{"blank full name", "  ", "Acme", models.RoleProducer},
		{"blank organization", "Jane Doe", "", models.RoleProducer},
		{"unknown role", "Jane Doe", "Acme", "Pilot"},
		{"admin is not a role", "Jane Doe", "Acme", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo)

			_, err := svc.UpdateProfile(context.Background(), "uid-1", tt.fullName, tt.organizationName, tt.role)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
			repo.AssertNotCalled(t, "UpdateProfile")
		})
	}
}

func TestUpdateProfile_TrimsAndStores(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("UpdateProfile", mock.Anything, "uid-1", "Jane Doe", "Acme", models.RoleProducer).
		Return(regularUser("uid-1"), nil).Once()

	_, err := svc.UpdateProfile(context.Background(), "uid-1", "  Jane Doe ", " Acme ", models.RoleProducer)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetUserByID", mock.Anything, "uid-1").Return(regularUser("uid-1"), nil).Once()

	_, err := svc.ListUsers(context.Background(), "uid-1", 1, 20)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthorization, apperror.From(err).Kind)
	repo.AssertNotCalled(t, "ListUsers")
}

func TestListUsers_PaginatesAndSanitizes(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()
	repo.On("ListUsers", mock.Anything, 10, 20).
		Return([]models.User{*regularUser("uid-1"), *regularUser("uid-2")}, 42, nil).Once()

	page, err := svc.ListUsers(context.Background(), "admin-1", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Users, 2)
	for _, u := range page.Users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestListUsers_DefaultsBadPagination(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()
	repo.On("ListUsers", mock.Anything, 20, 0).
		Return([]models.User{}, 0, nil).Once()

	page, err := svc.ListUsers(context.Background(), "admin-1", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
}

func TestUpdateUserStatus(t *testing.T) {
	t.Run("admin suspends another user", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()
		suspended := regularUser("uid-2")
		suspended.AccountStatus = models.StatusSuspended
		repo.On("UpdateAccountStatus", mock.Anything, "uid-2", models.StatusSuspended).
			Return(suspended, nil).Once()

		u, err := svc.UpdateUserStatus(context.Background(), "admin-1", "uid-2", models.StatusSuspended)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuspended, u.AccountStatus)
	})

	t.Run("admin cannot suspend themselves", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()

		_, err := svc.UpdateUserStatus(context.Background(), "admin-1", "admin-1", models.StatusSuspended)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
		repo.AssertNotCalled(t, "UpdateAccountStatus")
	})

	t.Run("admin may keep themselves active", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()
		repo.On("UpdateAccountStatus", mock.Anything, "admin-1", models.StatusActive).
			Return(adminUser("admin-1"), nil).Once()

		_, err := svc.UpdateUserStatus(context.Background(), "admin-1", "admin-1", models.StatusActive)
		require.NoError(t, err)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()

		_, err := svc.UpdateUserStatus(context.Background(), "admin-1", "uid-2", "banned")
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
	})

	t.Run("non-admin actor rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "uid-1").Return(regularUser("uid-1"), nil).Once()

		_, err := svc.UpdateUserStatus(context.Background(), "uid-1", "uid-2", models.StatusSuspended)
		require.Error(t, err)
		assert.Equal(t, apperror.KindAuthorization, apperror.From(err).Kind)
	})

	t.Run("missing target user", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("GetUserByID", mock.Anything, "admin-1").Return(adminUser("admin-1"), nil).Once()
		repo.On("UpdateAccountStatus", mock.Anything, "ghost", models.StatusSuspended).
			Return(nil, storage.ErrNotFound).Once()

		_, err := svc.UpdateUserStatus(context.Background(), "admin-1", "ghost", models.StatusSuspended)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
	})
}
