package user

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository/record"
	"github.com/clinicdesk/clinic-api/internal/store"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(record.NewUserRepository(s))
}

func super() model.User {
	return model.User{ID: "s1", Name: "Super Admin", Role: model.RoleSuper, Active: true}
}

func TestCreateUserStampsFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, super(), model.CreateUserRequest{
		Name:     "Dr. New",
		Email:    "new@clinic.com",
		Password: "secret1",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, model.RoleDoctor, created.Role)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)
}

func TestCreateUserRequiresSuper(t *testing.T) {
	svc := newTestService(t)

	nurse := model.User{ID: "n1", Role: model.RoleNurse, Active: true}
	_, err := svc.CreateUser(context.Background(), nurse, model.CreateUserRequest{
		Name: "X", Email: "x@clinic.com", Password: "secret1", Role: model.RoleNurse,
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestSetUserStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, super(), model.CreateUserRequest{
		Name: "Dr. New", Email: "new@clinic.com", Password: "secret1", Role: model.RoleDoctor,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetUserStatus(ctx, super(), created.ID, false))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.False(t, users[0].Active)

	require.NoError(t, svc.SetUserStatus(ctx, super(), created.ID, true))
	users, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.True(t, users[0].Active)
}

func TestSetUserStatusRequiresSuper(t *testing.T) {
	svc := newTestService(t)

	doctor := model.User{ID: "d1", Role: model.RoleDoctor, Active: true}
	err := svc.SetUserStatus(context.Background(), doctor, "someone", false)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}
