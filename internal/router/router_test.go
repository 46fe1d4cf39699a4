package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authHandler "github.com/clinicdesk/clinic-api/internal/handler/auth"
	dashboardHandler "github.com/clinicdesk/clinic-api/internal/handler/dashboard"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/clinicdesk/clinic-api/internal/handler/prescription"
	userHandler "github.com/clinicdesk/clinic-api/internal/handler/user"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/repository/record"
	"github.com/clinicdesk/clinic-api/internal/router"
	"github.com/clinicdesk/clinic-api/internal/seed"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	prescriptionService "github.com/clinicdesk/clinic-api/internal/service/prescription"
	receiptService "github.com/clinicdesk/clinic-api/internal/service/receipt"
	sessionService "github.com/clinicdesk/clinic-api/internal/service/session"
	userService "github.com/clinicdesk/clinic-api/internal/service/user"
	"github.com/clinicdesk/clinic-api/internal/store"
	"github.com/clinicdesk/clinic-api/pkg/logger"
)

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = seed.EnsureDemoUsers(context.Background(), st)
	require.NoError(t, err)

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})

	userRepo := record.NewUserRepository(st)
	patientRepo := record.NewPatientRepository(st)
	prescriptionRepo := record.NewPrescriptionRepository(st)
	sessionRepo := record.NewSessionRepository(st)

	userSvc := userService.NewService(userRepo)
	patientSvc := patientService.NewService(patientRepo, userRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo)
	sessionSvc := sessionService.NewService(userRepo, sessionRepo, log)
	receiptSvc := receiptService.NewService(prescriptionRepo, patientRepo, userRepo)

	auth := middleware.NewAuthMiddleware(sessionSvc)
	r := router.New(auth, router.Config{},
		authHandler.NewHandler(sessionSvc),
		userHandler.NewHandler(userSvc),
		patientHandler.NewHandler(patientSvc),
		prescriptionHandler.NewHandler(prescriptionSvc, receiptSvc),
		dashboardHandler.NewHandler(userRepo, patientRepo, prescriptionRepo),
	)
	r.Setup()

	srv := httptest.NewServer(r.Engine())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func login(t *testing.T, srv *httptest.Server, email, password string) {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login as %s: %s", email, body.Message)
}

func TestLoginRejections(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "admin@clinic.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body.Message)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoleGates(t *testing.T) {
	srv := newTestServer(t)

	// Nobody logged in
	resp, _ := do(t, srv, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A nurse may not manage accounts
	login(t, srv, "nurse@clinic.com", "nurse123")
	resp, _ = do(t, srv, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A super admin may
	login(t, srv, "admin@clinic.com", "admin123")
	resp, body := do(t, srv, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body.Status)
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	srv := newTestServer(t)

	login(t, srv, "admin@clinic.com", "admin123")

	resp, _ := do(t, srv, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Deactivate Dr. John (seeded id 2)
	inactive := false
	resp, _ = do(t, srv, http.MethodPatch, "/api/v1/users/2/status",
		map[string]interface{}{"active": inactive})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "doctor@clinic.com", "password": "doctor123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Account is inactive", body.Message)
}

func TestFullClinicFlow(t *testing.T) {
	srv := newTestServer(t)

	// Nurse registers a patient assigned to Dr. John (seeded id 2)
	login(t, srv, "nurse@clinic.com", "nurse123")
	resp, body := do(t, srv, http.MethodPost, "/api/v1/patients", map[string]interface{}{
		"name":             "Alice",
		"age":              34,
		"place":            "Springfield",
		"bloodGroup":       "A+",
		"phone":            "555-0101",
		"assignedDoctorId": "2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	var patient struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &patient))
	require.NotEmpty(t, patient.ID)

	// Doctor authors a prescription
	login(t, srv, "doctor@clinic.com", "doctor123")
	resp, body = do(t, srv, http.MethodPost, "/api/v1/prescriptions", map[string]interface{}{
		"patientId": patient.ID,
		"diagnosis": "Seasonal flu",
		"medicines": "Paracetamol 500mg\nVitamin C",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	var prescription struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &prescription))

	// A second prescription for the same patient is rejected
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/prescriptions", map[string]interface{}{
		"patientId": patient.ID,
		"diagnosis": "Second opinion",
		"medicines": "Ibuprofen",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Doctors cannot dispense
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/prescriptions/"+prescription.ID+"/dispense", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Nurse dispenses exactly once
	login(t, srv, "nurse@clinic.com", "nurse123")
	resp, body = do(t, srv, http.MethodPost, "/api/v1/prescriptions/"+prescription.ID+"/dispense", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Prescription dispensed", body.Message)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/prescriptions/"+prescription.ID+"/dispense", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Receipt renders for the dispensed prescription
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/prescriptions/"+prescription.ID+"/receipt", nil)
	require.NoError(t, err)
	receiptResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer receiptResp.Body.Close()
	require.Equal(t, http.StatusOK, receiptResp.StatusCode)
	doc, err := io.ReadAll(receiptResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "Alice")
	assert.Contains(t, string(doc), "data:image/png;base64,")

	// Dashboard summary reflects the flow
	resp, body = do(t, srv, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Patients        int `json:"patients"`
		Prescriptions   int `json:"prescriptions"`
		PendingDispense int `json:"pendingDispense"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.Equal(t, 1, summary.Patients)
	assert.Equal(t, 1, summary.Prescriptions)
	assert.Equal(t, 0, summary.PendingDispense)
}

func TestPatientRegistrationRejectsInactiveDoctor(t *testing.T) {
	srv := newTestServer(t)

	login(t, srv, "admin@clinic.com", "admin123")
	inactive := false
	resp, _ := do(t, srv, http.MethodPatch, "/api/v1/users/3/status",
		map[string]interface{}{"active": inactive})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	login(t, srv, "nurse@clinic.com", "nurse123")
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/patients", map[string]interface{}{
		"name":             "Bob",
		"age":              41,
		"place":            "Shelbyville",
		"bloodGroup":       "B+",
		"phone":            "555-0102",
		"assignedDoctorId": "3",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHealthAndMetricsExposed(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}
