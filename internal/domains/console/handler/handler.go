package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addressModel "address-console/internal/domains/address/model"
	"address-console/internal/domains/console/service"
	settingsModel "address-console/internal/domains/settings/model"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/response"
)

type ConsoleHandler struct {
	service service.ServiceInterface
}

func NewConsoleHandler(service service.ServiceInterface) *ConsoleHandler {
	return &ConsoleHandler{service: service}
}

func (h *ConsoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bootstrap", h.Bootstrap)
}

// Bootstrap handles GET /bootstrap
func (h *ConsoleHandler) Bootstrap(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	profile := settingsModel.UserProfile{
		ID:    userID,
		Email: c.GetString(middleware.ContextEmail),
		Name:  c.GetString(middleware.ContextName),
	}

	out, err := h.service.Bootstrap(c.Request.Context(), profile)
	if err != nil {
		response.FromError(c, err, addressModel.MapErrorToHTTP)
		return
	}
	response.Success(c, http.StatusOK, out)
}
