package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

type Servicer interface {
	CreateUser(ctx context.Context, actor model.User, req model.CreateUserRequest) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserStatus(ctx context.Context, actor model.User, userID string, active bool) error
}

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// CreateUser registers a new account. Only a SUPER actor may create
// accounts; the service stamps id, creation time and the active flag.
func (s *Service) CreateUser(ctx context.Context, actor model.User, req model.CreateUserRequest) (*model.User, error) {
	if actor.Role != model.RoleSuper {
		return nil, errors.Forbidden(fmt.Errorf("role %s cannot create users", actor.Role))
	}

	user := model.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserStatus activates or deactivates an account. Deactivation makes
// the account ineligible to authenticate and ineligible for new patient
// assignment; records it already touched stay as written.
func (s *Service) SetUserStatus(ctx context.Context, actor model.User, userID string, active bool) error {
	if actor.Role != model.RoleSuper {
		return errors.Forbidden(fmt.Errorf("role %s cannot change account status", actor.Role))
	}
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}
