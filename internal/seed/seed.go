// Package seed bootstraps the demo accounts on first run.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/store"
)

// DemoUsers returns the demonstration accounts with their known login
// pairs: one SUPER, three DOCTORs, two NURSEs.
func DemoUsers() []model.User {
	now := time.Now().UTC()
	return []model.User{
		{ID: "1", Name: "Super Admin", Email: "admin@clinic.com", Password: "admin123", Role: model.RoleSuper, Active: true, CreatedAt: now},
		{ID: "2", Name: "Dr. John", Email: "doctor@clinic.com", Password: "doctor123", Role: model.RoleDoctor, Active: true, CreatedAt: now},
		{ID: "3", Name: "Dr. doctor1", Email: "doctor1@clinic.com", Password: "doctor123", Role: model.RoleDoctor, Active: true, CreatedAt: now},
		{ID: "4", Name: "Dr. doctor2", Email: "doctor2@clinic.com", Password: "doctor123", Role: model.RoleDoctor, Active: true, CreatedAt: now},
		{ID: "5", Name: "Nurse1 Mary", Email: "nurse@clinic.com", Password: "nurse123", Role: model.RoleNurse, Active: true, CreatedAt: now},
		{ID: "6", Name: "Nurse2 Queen", Email: "nurse2@clinic.com", Password: "nurse123", Role: model.RoleNurse, Active: true, CreatedAt: now},
	}
}

// EnsureDemoUsers seeds the users collection when it has never been
// written. An existing collection is left alone, even when empty: an
// operator who deleted every account should not get the demo set back.
func EnsureDemoUsers(ctx context.Context, s *store.Store) (bool, error) {
	exists, err := s.Exists(ctx, store.CollectionUsers)
	if err != nil {
		return false, fmt.Errorf("check users collection: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := store.Save(ctx, s, store.CollectionUsers, DemoUsers()); err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	return true, nil
}
