package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testUser(id, email, role string) model.User {
	return model.User{
		ID:        id,
		Name:      "User " + id,
		Email:     email,
		Password:  "secret",
		Role:      role,
		Active:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func testPatient(id, doctorID string) model.Patient {
	return model.Patient{
		ID:               id,
		Name:             "Patient " + id,
		Age:              30,
		Place:            "Springfield",
		BloodGroup:       "O+",
		Phone:            "555-0100",
		CreatedBy:        "nurse-1",
		AssignedDoctorID: doctorID,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

func testPrescription(id, patientID string) model.Prescription {
	return model.Prescription{
		ID:        id,
		PatientID: patientID,
		DoctorID:  "doc-1",
		Diagnosis: "Seasonal flu",
		Medicines: "Paracetamol 500mg\nVitamin C",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
