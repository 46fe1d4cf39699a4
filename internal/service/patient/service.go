package patient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

type Servicer interface {
	RegisterPatient(ctx context.Context, actor model.User, req model.CreatePatientRequest) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]model.PatientWithDoctor, error)
	ListActiveDoctors(ctx context.Context) ([]model.User, error)
}

type Service struct {
	repo     repository.PatientRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.PatientRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// RegisterPatient records a new patient. Only a NURSE actor may register
// patients, and the assigned doctor must be an existing active DOCTOR at
// assignment time.
func (s *Service) RegisterPatient(ctx context.Context, actor model.User, req model.CreatePatientRequest) (*model.Patient, error) {
	if actor.Role != model.RoleNurse {
		return nil, errors.Forbidden(fmt.Errorf("role %s cannot register patients", actor.Role))
	}

	doctor, err := s.findDoctor(ctx, req.AssignedDoctorID)
	if err != nil {
		return nil, err
	}

	patient := model.Patient{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Age:              req.Age,
		Place:            req.Place,
		BloodGroup:       req.BloodGroup,
		Phone:            req.Phone,
		Email:            req.Email,
		CreatedBy:        actor.ID,
		AssignedDoctorID: doctor.ID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}
	return &patient, nil
}

func (s *Service) findDoctor(ctx context.Context, doctorID string) (*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		if users[i].ID == doctorID {
			if users[i].Role != model.RoleDoctor || !users[i].Active {
				return nil, errors.ErrDoctorUnavailable
			}
			return &users[i], nil
		}
	}
	return nil, errors.ErrDoctorUnavailable
}

// ListPatients returns every patient in insertion order with the
// assigned doctor's name resolved for display.
func (s *Service) ListPatients(ctx context.Context) ([]model.PatientWithDoctor, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	out := make([]model.PatientWithDoctor, 0, len(patients))
	for _, p := range patients {
		out = append(out, model.PatientWithDoctor{
			Patient:    p,
			DoctorName: names[p.AssignedDoctorID],
		})
	}
	return out, nil
}

// ListActiveDoctors returns the doctors eligible for new patient
// assignment.
func (s *Service) ListActiveDoctors(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	doctors := make([]model.User, 0)
	for _, u := range users {
		if u.Role == model.RoleDoctor && u.Active {
			doctors = append(doctors, u.Sanitized())
		}
	}
	return doctors, nil
}

// SortedByLatest orders patients newest first for dashboard listings.
func SortedByLatest(patients []model.PatientWithDoctor) []model.PatientWithDoctor {
	out := make([]model.PatientWithDoctor, len(patients))
	copy(out, patients)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
