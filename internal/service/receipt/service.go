// Package receipt builds printable dispense receipts: a prescription
// number, the resolved patient/doctor/nurse names and a scan code over
// the same fields, rendered as a standalone HTML document.
package receipt

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/errors"
)

const qrSize = 256

// Receipt is the fully resolved, print-ready view of a dispensed
// prescription.
type Receipt struct {
	Number      string    `json:"number"`
	PatientName string    `json:"patientName"`
	DoctorName  string    `json:"doctorName"`
	NurseName   string    `json:"nurseName"`
	Diagnosis   string    `json:"diagnosis"`
	Medicines   []string  `json:"medicines"`
	Notes       string    `json:"notes,omitempty"`
	IssuedAt    time.Time `json:"issuedAt"`
	DispensedAt time.Time `json:"dispensedAt"`
	QRPNG       []byte    `json:"-"`
}

type Servicer interface {
	Generate(ctx context.Context, prescriptionID string) (*Receipt, error)
	RenderHTML(r *Receipt) ([]byte, error)
}

type Service struct {
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	users         repository.UserRepository
}

func NewService(prescriptions repository.PrescriptionRepository, patients repository.PatientRepository, users repository.UserRepository) *Service {
	return &Service{prescriptions: prescriptions, patients: patients, users: users}
}

// Number derives the human-readable prescription number from the opaque
// record id.
func Number(prescriptionID string) string {
	short := prescriptionID
	if len(short) > 6 {
		short = short[:6]
	}
	return "RX-" + strings.ToUpper(short)
}

// Generate resolves a dispensed prescription into a receipt. Only
// dispensed prescriptions have receipts.
func (s *Service) Generate(ctx context.Context, prescriptionID string) (*Receipt, error) {
	prescriptions, err := s.prescriptions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	var prescription *model.Prescription
	for i := range prescriptions {
		if prescriptions[i].ID == prescriptionID {
			prescription = &prescriptions[i]
			break
		}
	}
	if prescription == nil {
		return nil, errors.ErrPrescriptionNotFound
	}
	if !prescription.Dispensed || prescription.DispensedAt == nil {
		return nil, errors.ErrNotDispensed
	}

	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	var patientName string
	for i := range patients {
		if patients[i].ID == prescription.PatientID {
			patientName = patients[i].Name
			break
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var doctorName, nurseName string
	for i := range users {
		switch users[i].ID {
		case prescription.DoctorID:
			doctorName = users[i].Name
		case prescription.DispensedBy:
			nurseName = users[i].Name
		}
	}

	number := Number(prescription.ID)
	qrData := fmt.Sprintf(
		"Prescription No: %s\nPatient: %s\nDoctor: %s\nDiagnosis: %s\nDate: %s",
		number, patientName, doctorName, prescription.Diagnosis,
		prescription.CreatedAt.Format("02/01/2006"),
	)
	png, err := qrcode.Encode(qrData, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan code: %w", err)
	}

	return &Receipt{
		Number:      number,
		PatientName: patientName,
		DoctorName:  doctorName,
		NurseName:   nurseName,
		Diagnosis:   prescription.Diagnosis,
		Medicines:   prescription.MedicineLines(),
		Notes:       prescription.Notes,
		IssuedAt:    prescription.CreatedAt,
		DispensedAt: *prescription.DispensedAt,
		QRPNG:       png,
	}, nil
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<html>
<head>
<title>Prescription {{.Number}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 40px; }
.header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px; }
h2 { margin: 0; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; }
td, th { border: 1px solid #ccc; padding: 8px; text-align: left; }
.meta p { margin: 4px 0; }
.qr { height: 120px; }
</style>
</head>
<body>
<div class="header">
<h2>Prescription {{.Number}}</h2>
<img class="qr" src="{{.QRDataURI}}" alt="scan code" />
</div>
<div class="meta">
<p><strong>Patient:</strong> {{.PatientName}}</p>
<p><strong>Doctor:</strong> {{.DoctorName}}</p>
<p><strong>Diagnosis:</strong> {{.Diagnosis}}</p>
<p><strong>Date:</strong> {{.IssuedAt.Format "02 Jan 2006"}}</p>
</div>
<table>
<tr><th>Medicine</th><th>Dosage</th></tr>
{{range .Medicines}}<tr><td>{{.}}</td><td>As Prescribed</td></tr>
{{end}}</table>
{{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
<p>Dispensed by {{.NurseName}} on {{.DispensedAt.Format "02 Jan 2006 03:04 PM"}}</p>
</body>
</html>
`))

type receiptView struct {
	*Receipt
	QRDataURI template.URL
}

// RenderHTML produces the printable document with the scan code
// embedded inline.
func (s *Service) RenderHTML(r *Receipt) ([]byte, error) {
	view := receiptView{
		Receipt:   r,
		QRDataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(r.QRPNG)),
	}
	var buf strings.Builder
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return []byte(buf.String()), nil
}
