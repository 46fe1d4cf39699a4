package record

import (
	"context"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/store"
)

type patientRepository struct {
	store *store.Store
}

func NewPatientRepository(s *store.Store) repository.PatientRepository {
	return &patientRepository{store: s}
}

func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	return store.Load[model.Patient](ctx, r.store, store.CollectionPatients)
}

func (r *patientRepository) Create(ctx context.Context, patient model.Patient) error {
	return store.Update(ctx, r.store, store.CollectionPatients,
		func(patients []model.Patient) ([]model.Patient, error) {
			return append(patients, patient), nil
		})
}
