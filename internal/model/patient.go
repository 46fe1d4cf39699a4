package model

import "time"

// Patient represents a registered patient. Patients are registered by a
// NURSE actor and are not edited or deleted after creation.
type Patient struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Place            string    `json:"place"`
	BloodGroup       string    `json:"bloodGroup"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	CreatedBy        string    `json:"createdBy"`
	AssignedDoctorID string    `json:"assignedDoctorId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreatePatientRequest represents patient registration parameters
type CreatePatientRequest struct {
	Name             string `json:"name" binding:"required"`
	Age              int    `json:"age" binding:"required,gt=0"`
	Place            string `json:"place" binding:"required"`
	BloodGroup       string `json:"bloodGroup" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	AssignedDoctorID string `json:"assignedDoctorId" binding:"required"`
}

// PatientWithDoctor pairs a patient with its resolved doctor for listings.
type PatientWithDoctor struct {
	Patient
	DoctorName string `json:"doctorName,omitempty"`
}
