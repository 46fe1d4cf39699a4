package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/prescription"
	"github.com/clinicdesk/clinic-api/internal/service/receipt"
)

type Handler struct {
	service  prescription.Servicer
	receipts receipt.Servicer
}

func NewHandler(service prescription.Servicer, receipts receipt.Servicer) *Handler {
	return &Handler{service: service, receipts: receipts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	prescriptions := r.Group("/prescriptions", auth.Authenticate())
	{
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.POST("", auth.RequireRoles(model.RoleDoctor), h.AuthorPrescription)
		prescriptions.POST("/:id/dispense", auth.RequireRoles(model.RoleNurse), h.Dispense)
		prescriptions.GET("/:id/receipt", auth.RequireRoles(model.RoleNurse), h.Receipt)
	}
}

func (h *Handler) AuthorPrescription(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.AuthorPrescription(c.Request.Context(), actor, req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessMessage("Prescription created", created))
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.ListPrescriptions(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}

func (h *Handler) Dispense(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	if err := h.service.Dispense(c.Request.Context(), actor, c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessMessage("Prescription dispensed", nil))
}

// Receipt renders the printable dispense receipt for a prescription.
func (h *Handler) Receipt(c *gin.Context) {
	r, err := h.receipts.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(r))
		return
	}

	html, err := h.receipts.RenderHTML(r)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
