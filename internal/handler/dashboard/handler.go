package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

// SnapshotTTL matches the interval dashboards re-poll at, so a cached
// summary is never staler than what a polling client would see anyway.
const SnapshotTTL = 5 * time.Second

const summaryKey = "summary"

// Summary is the dashboard counters snapshot.
type Summary struct {
	Users           int       `json:"users"`
	ActiveUsers     int       `json:"activeUsers"`
	Patients        int       `json:"patients"`
	Prescriptions   int       `json:"prescriptions"`
	PendingDispense int       `json:"pendingDispense"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type Handler struct {
	users         repository.UserRepository
	patients      repository.PatientRepository
	prescriptions repository.PrescriptionRepository
	cache         *gocache.Cache
}

func NewHandler(users repository.UserRepository, patients repository.PatientRepository, prescriptions repository.PrescriptionRepository) *Handler {
	return &Handler{
		users:         users,
		patients:      patients,
		prescriptions: prescriptions,
		cache:         gocache.New(SnapshotTTL, time.Minute),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.GET("/dashboard/summary", auth.Authenticate(), h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	if cached, ok := h.cache.Get(summaryKey); ok {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
		return
	}

	ctx := c.Request.Context()
	users, err := h.users.List(ctx)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	patients, err := h.patients.List(ctx)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	prescriptions, err := h.prescriptions.List(ctx)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	summary := Summary{
		Users:         len(users),
		Patients:      len(patients),
		Prescriptions: len(prescriptions),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, u := range users {
		if u.Active {
			summary.ActiveUsers++
		}
	}
	for _, p := range prescriptions {
		if !p.Dispensed {
			summary.PendingDispense++
		}
	}

	h.cache.SetDefault(summaryKey, summary)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}
