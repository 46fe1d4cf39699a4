package prescription

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
	AuthorPrescription(ctx context.Context, actor model.User, req model.CreatePrescriptionRequest) (*model.Prescription, error)
	ListPrescriptions(ctx context.Context) ([]model.Prescription, error)
	Dispense(ctx context.Context, actor model.User, prescriptionID string) error
}

type Service struct {
	repo        repository.PrescriptionRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.PrescriptionRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{repo: repo, patientRepo: patientRepo}
}

// AuthorPrescription records a diagnosis and medicine list for a
// patient. Only a DOCTOR actor may author prescriptions; a patient can
// carry at most one.
func (s *Service) AuthorPrescription(ctx context.Context, actor model.User, req model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if actor.Role != model.RoleDoctor {
		return nil, errors.Forbidden(fmt.Errorf("role %s cannot author prescriptions", actor.Role))
	}

	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	found := false
	for i := range patients {
		if patients[i].ID == req.PatientID {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.ErrPatientNotFound
	}

	prescription := model.Prescription{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		DoctorID:  actor.ID,
		Diagnosis: req.Diagnosis,
		Medicines: req.Medicines,
		Notes:     req.Notes,
		Dispensed: false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		if errors.Is(err, errors.ErrDuplicatePrescription) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return &prescription, nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	prescriptions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// Dispense marks a prescription fulfilled by the acting nurse. The
// transition happens exactly once; re-dispensing is rejected with the
// original audit fields intact.
func (s *Service) Dispense(ctx context.Context, actor model.User, prescriptionID string) error {
	if actor.Role != model.RoleNurse {
		return errors.Forbidden(fmt.Errorf("role %s cannot dispense prescriptions", actor.Role))
	}
	if err := s.repo.MarkDispensed(ctx, prescriptionID, actor.ID); err != nil {
		if errors.Is(err, errors.ErrAlreadyDispensed) {
			return err
		}
		return fmt.Errorf("failed to dispense prescription: %w", err)
	}
	return nil
}
