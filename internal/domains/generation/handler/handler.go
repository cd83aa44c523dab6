package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"address-console/internal/domains/generation/model"
	"address-console/internal/domains/generation/service"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/response"
)

type GenerationHandler struct {
	service service.ServiceInterface
}

func NewGenerationHandler(service service.ServiceInterface) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// RegisterRoutes gắn route generation; limit (nếu có) chỉ áp dụng cho generate
func (h *GenerationHandler) RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	generate := append(append([]gin.HandlerFunc{}, limit...), h.Generate)
	rg.POST("/generation", generate...)
	rg.GET("/system-prompt", h.GetSystemPrompt)
	rg.PUT("/system-prompt", h.PutSystemPrompt)
}

// Generate handles POST /generation
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.CodeInvalidRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.service.Generate(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetSystemPrompt handles GET /system-prompt?lang=
func (h *GenerationHandler) GetSystemPrompt(c *gin.Context) {
	prompt, err := h.service.GetSystemPrompt(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusOK, prompt)
}

// PutSystemPrompt handles PUT /system-prompt?lang=
func (h *GenerationHandler) PutSystemPrompt(c *gin.Context) {
	var req model.PutSystemPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.CodeInvalidSystemPrompt, "Invalid request payload", err.Error())
		return
	}

	prompt, err := h.service.PutSystemPrompt(c.Request.Context(), c.Query("lang"), req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusOK, prompt)
}
