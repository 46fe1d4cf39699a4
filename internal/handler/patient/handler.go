package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/patient"
)

type Handler struct {
	service patient.Servicer
}

func NewHandler(service patient.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	patients := r.Group("/patients", auth.Authenticate())
	{
		patients.GET("", h.ListPatients)
		patients.POST("", auth.RequireRoles(model.RoleNurse), h.RegisterPatient)
	}
	r.GET("/doctors", auth.Authenticate(), h.ListActiveDoctors)
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.RegisterPatient(c.Request.Context(), actor, req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessMessage("Patient registered", created))
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// Dashboards show the most recent registrations first.
	if c.Query("sort") == "latest" {
		patients = patient.SortedByLatest(patients)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) ListActiveDoctors(c *gin.Context) {
	doctors, err := h.service.ListActiveDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}
