package record

import (
	"context"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/store"
)

type sessionRepository struct {
	store *store.Store
}

func NewSessionRepository(s *store.Store) repository.SessionRepository {
	return &sessionRepository{store: s}
}

func (r *sessionRepository) Get(ctx context.Context) (*model.User, error) {
	return store.LoadValue[model.User](ctx, r.store, store.KeyCurrentUser)
}

func (r *sessionRepository) Put(ctx context.Context, user model.User) error {
	return store.SaveValue(ctx, r.store, store.KeyCurrentUser, user)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, store.KeyCurrentUser)
}
