package record

import (
	"context"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/store"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

type userRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) repository.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return store.Load[model.User](ctx, r.store, store.CollectionUsers)
}

func (r *userRepository) Create(ctx context.Context, user model.User) error {
	return store.Update(ctx, r.store, store.CollectionUsers,
		func(users []model.User) ([]model.User, error) {
			return append(users, user), nil
		})
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	return store.Update(ctx, r.store, store.CollectionUsers,
		func(users []model.User) ([]model.User, error) {
			for i := range users {
				if users[i].ID == id {
					users[i].Active = active
					break
				}
			}
			return users, nil
		})
}

func (r *userRepository) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	users, err := store.Load[model.User](ctx, r.store, store.CollectionUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			if !users[i].Active {
				return nil, errors.ErrAccountInactive
			}
			user := users[i]
			return &user, nil
		}
	}
	return nil, errors.ErrInvalidCredentials
}
