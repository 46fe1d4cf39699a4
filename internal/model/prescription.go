package model

import (
	"strings"
	"time"
)

// Prescription represents a doctor's diagnosis and medicine list for one
// patient. Medicines is free text, one medicine per line.
//
// A prescription moves through exactly one transition:
// dispensed=false -> dispensed=true, stamped with the dispensing nurse.
type Prescription struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	DoctorID    string     `json:"doctorId"`
	Diagnosis   string     `json:"diagnosis"`
	Medicines   string     `json:"medicines"`
	Notes       string     `json:"notes,omitempty"`
	Dispensed   bool       `json:"dispensed"`
	DispensedBy string     `json:"dispensedBy,omitempty"`
	DispensedAt *time.Time `json:"dispensedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MedicineLines splits the free-text medicine list into its entries,
// dropping blank lines.
func (p Prescription) MedicineLines() []string {
	var lines []string
	for _, line := range strings.Split(p.Medicines, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// CreatePrescriptionRequest represents prescription authoring parameters
type CreatePrescriptionRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
	Medicines string `json:"medicines" binding:"required"`
	Notes     string `json:"notes"`
}
