package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureDemoUsersSeedsOnFirstRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded, err := EnsureDemoUsers(ctx, s)
	require.NoError(t, err)
	assert.True(t, seeded)

	users, err := store.Load[model.User](ctx, s, store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, users, 6)

	var supers, doctors, nurses int
	for _, u := range users {
		switch u.Role {
		case model.RoleSuper:
			supers++
		case model.RoleDoctor:
			doctors++
		case model.RoleNurse:
			nurses++
		}
		assert.True(t, u.Active)
	}
	assert.Equal(t, 1, supers)
	assert.Equal(t, 3, doctors)
	assert.Equal(t, 2, nurses)

	assert.Equal(t, "admin@clinic.com", users[0].Email)
	assert.Equal(t, "admin123", users[0].Password)
}

func TestEnsureDemoUsersSkipsExistingCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	custom := []model.User{{ID: "u1", Email: "only@clinic.com", Role: model.RoleSuper, Active: true}}
	require.NoError(t, store.Save(ctx, s, store.CollectionUsers, custom))

	seeded, err := EnsureDemoUsers(ctx, s)
	require.NoError(t, err)
	assert.False(t, seeded)

	users, err := store.Load[model.User](ctx, s, store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestEnsureDemoUsersSkipsEmptyButExistingCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, s, store.CollectionUsers, []model.User{}))

	seeded, err := EnsureDemoUsers(ctx, s)
	require.NoError(t, err)
	assert.False(t, seeded)
}
