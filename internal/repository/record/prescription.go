package record

import (
	"context"
	"time"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/store"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

type prescriptionRepository struct {
	store *store.Store
}

func NewPrescriptionRepository(s *store.Store) repository.PrescriptionRepository {
	return &prescriptionRepository{store: s}
}

func (r *prescriptionRepository) List(ctx context.Context) ([]model.Prescription, error) {
	return store.Load[model.Prescription](ctx, r.store, store.CollectionPrescriptions)
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription model.Prescription) error {
	return store.Update(ctx, r.store, store.CollectionPrescriptions,
		func(prescriptions []model.Prescription) ([]model.Prescription, error) {
			for i := range prescriptions {
				if prescriptions[i].PatientID == prescription.PatientID {
					return nil, errors.ErrDuplicatePrescription
				}
			}
			return append(prescriptions, prescription), nil
		})
}

func (r *prescriptionRepository) MarkDispensed(ctx context.Context, id, nurseID string) error {
	return store.Update(ctx, r.store, store.CollectionPrescriptions,
		func(prescriptions []model.Prescription) ([]model.Prescription, error) {
			for i := range prescriptions {
				if prescriptions[i].ID != id {
					continue
				}
				if prescriptions[i].Dispensed {
					return nil, errors.ErrAlreadyDispensed
				}
				now := time.Now().UTC()
				prescriptions[i].Dispensed = true
				prescriptions[i].DispensedBy = nurseID
				prescriptions[i].DispensedAt = &now
				break
			}
			return prescriptions, nil
		})
}
