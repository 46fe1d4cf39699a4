package session

import (
	"context"
	"fmt"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
)

// Login outcome messages, surfaced to the user verbatim.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgAccountInactive    = "Account is inactive"
	MsgLoginSuccessful    = "Login successful"
)

type Servicer interface {
	Login(ctx context.Context, email, password string) (*model.LoginResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
}

type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	log      *logger.Logger
}

func NewService(users repository.UserRepository, sessions repository.SessionRepository, log *logger.Logger) *Service {
	return &Service{users: users, sessions: sessions, log: log}
}

// Login authenticates the credentials and, on success, persists the user
// as the current session, overwriting any prior session marker.
// Rejections come back as a failed LoginResult; only substrate failures
// are returned as errors.
func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrInvalidCredentials):
			s.log.Debug("login rejected", "email", email, "reason", "invalid credentials")
			return &model.LoginResult{Success: false, Message: MsgInvalidCredentials}, nil
		case errors.Is(err, errors.ErrAccountInactive):
			s.log.Debug("login rejected", "email", email, "reason", "account inactive")
			return &model.LoginResult{Success: false, Message: MsgAccountInactive}, nil
		default:
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := s.sessions.Put(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.log.Info("login", "email", email, "role", user.Role)
	return &model.LoginResult{Success: true, Message: MsgLoginSuccessful, User: user}, nil
}

// Logout clears the persisted session marker. Logging out with no
// session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser resolves the persisted session marker. A nil user with a
// nil error means nobody is logged in.
func (s *Service) CurrentUser(ctx context.Context) (*model.User, error) {
	user, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return user, nil
}
