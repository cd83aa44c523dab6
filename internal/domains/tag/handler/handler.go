package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"address-console/internal/domains/tag/model"
	"address-console/internal/domains/tag/service"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/response"
)

type TagHandler struct {
	service         service.ServiceInterface
	defaultLanguage string
}

func NewTagHandler(service service.ServiceInterface, defaultLanguage string) *TagHandler {
	return &TagHandler{service: service, defaultLanguage: defaultLanguage}
}

func (h *TagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.Categories)
}

// Categories handles GET /tags?lang=&force=true
func (h *TagHandler) Categories(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	language := c.DefaultQuery("lang", h.defaultLanguage)
	force, _ := strconv.ParseBool(c.Query("force"))

	categories, err := h.service.Categories(c.Request.Context(), userID, language, force)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusOK, categories)
}
