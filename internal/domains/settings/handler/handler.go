package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"address-console/internal/domains/settings/model"
	"address-console/internal/domains/settings/service"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/response"
)

type SettingsHandler struct {
	service service.ServiceInterface
}

func NewSettingsHandler(service service.ServiceInterface) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}

// Get handles GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	settings, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// Update handles PUT /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req model.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}
	response.Success(c, http.StatusOK, settings)
}
