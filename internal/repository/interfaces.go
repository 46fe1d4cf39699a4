package repository

import (
	"context"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// UserRepository owns the users collection.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user model.User) error
	// SetActive flips only the active flag, leaving every other field
	// untouched. Unknown ids are a silent no-op.
	SetActive(ctx context.Context, id string, active bool) error
	// Authenticate matches email and password exactly (case sensitive).
	// No match returns ErrInvalidCredentials; a match on a deactivated
	// account returns ErrAccountInactive.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// PatientRepository owns the patients collection.
type PatientRepository interface {
	List(ctx context.Context) ([]model.Patient, error)
	Create(ctx context.Context, patient model.Patient) error
}

// PrescriptionRepository owns the prescriptions collection.
type PrescriptionRepository interface {
	List(ctx context.Context) ([]model.Prescription, error)
	// Create rejects a second prescription for an already-prescribed
	// patient with ErrDuplicatePrescription. The check runs inside the
	// collection's serialized write, so it holds under concurrent
	// submission as well.
	Create(ctx context.Context, prescription model.Prescription) error
	// MarkDispensed performs the single dispensed=false -> true
	// transition, stamping the dispensing nurse and time. A second call
	// for the same prescription returns ErrAlreadyDispensed and leaves
	// the original audit fields intact. Unknown ids are a silent no-op.
	MarkDispensed(ctx context.Context, id, nurseID string) error
}

// SessionRepository owns the persisted session marker.
type SessionRepository interface {
	Get(ctx context.Context) (*model.User, error)
	Put(ctx context.Context, user model.User) error
	Clear(ctx context.Context) error
}
