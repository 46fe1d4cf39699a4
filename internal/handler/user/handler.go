package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/user"
)

type Handler struct {
	service user.Servicer
}

func NewHandler(service user.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	users := r.Group("/users", auth.Authenticate(), auth.RequireRoles(model.RoleSuper))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PATCH("/:id/status", h.SetUserStatus)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessMessage("User created", created.Sanitized()))
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	sanitized := make([]model.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sanitized))
}

func (h *Handler) SetUserStatus(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req model.SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SetUserStatus(c.Request.Context(), actor, c.Param("id"), *req.Active); err != nil {
		handler.RespondError(c, err)
		return
	}

	message := "User deactivated"
	if *req.Active {
		message = "User activated"
	}
	c.JSON(http.StatusOK, handler.NewSuccessMessage(message, nil))
}
