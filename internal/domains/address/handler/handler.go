package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"address-console/internal/domains/address/export"
	"address-console/internal/domains/address/model"
	"address-console/internal/domains/address/service"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/response"
)

const maxImportBody = 8 << 20

type AddressHandler struct {
	service service.ServiceInterface

	// giới hạn body của import, byte
	importLimit int64
}

func NewAddressHandler(service service.ServiceInterface) *AddressHandler {
	return &AddressHandler{
		service:     service,
		importLimit: maxImportBody,
	}
}

// RegisterRoutes gắn các route address vào group đã qua auth
func (h *AddressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	addresses := rg.Group("/addresses")
	{
		addresses.GET("", h.Load)
		addresses.GET("/current", h.Current)
		addresses.POST("/more", h.LoadMore)
		addresses.GET("/pages/:page", h.View)
		addresses.POST("", h.Create)
		addresses.POST("/import", h.Import)
		addresses.GET("/export", h.Export)
		addresses.PUT("/:id", h.Update)
		addresses.DELETE("/:id", h.Delete)
	}
	rg.DELETE("/session", h.EndSession)
}

// Load handles GET /addresses?lang=&tags=a,b
func (h *AddressHandler) Load(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	req := model.ListRequest{
		Language: c.Query("lang"),
		Tags:     splitTags(c.Query("tags")),
	}

	view, err := h.service.Load(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	writeView(c, view)
}

// Current handles GET /addresses/current
func (h *AddressHandler) Current(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	view, err := h.service.Current(userID)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	writeView(c, view)
}

// LoadMore handles POST /addresses/more
func (h *AddressHandler) LoadMore(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	view, err := h.service.LoadMore(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	writeView(c, view)
}

// View handles GET /addresses/pages/:page
func (h *AddressHandler) View(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		response.BadRequest(c, "page must be an integer")
		return
	}

	view, err := h.service.View(c.Request.Context(), userID, page)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	writeView(c, view)
}

// Create handles POST /addresses
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req model.AddressUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.CodeInvalidAddress, "Invalid request payload", err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Update handles PUT /addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req model.AddressUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.CodeInvalidAddress, "Invalid request payload", err.Error())
		return
	}

	record, err := h.service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// Delete handles DELETE /addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	view, err := h.service.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	writeView(c, view)
}

// Import handles POST /addresses/import?lang= với body là JSON array
func (h *AddressHandler) Import(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.importLimit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge,
				fmt.Sprintf("import payload exceeds %d bytes", tooLarge.Limit))
			return
		}
		response.BadRequest(c, "failed to read import payload")
		return
	}

	outcome, err := h.service.Import(c.Request.Context(), userID, c.Query("lang"), raw)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	status := http.StatusOK
	if len(outcome.Created) > 0 {
		status = http.StatusCreated
	}
	response.Success(c, status, outcome)
}

// EndSession handles DELETE /session
func (h *AddressHandler) EndSession(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ended := h.service.EndSession(userID)
	response.Success(c, http.StatusOK, gin.H{"ended": ended})
}

func writeView(c *gin.Context, view *model.AddressView) {
	response.SuccessWithMeta(c, http.StatusOK, view, &response.Meta{
		Page:       view.CurrentPage,
		Limit:      view.PageSize,
		Total:      view.TotalCount,
		TotalPages: view.TotalPages,
		HasMore:    view.HasMore,
	})
}

// Export handles GET /addresses/export?lang=&tags=a,b and streams an .xlsx file
func (h *AddressHandler) Export(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	req := model.ListRequest{
		Language: c.Query("lang"),
		Tags:     splitTags(c.Query("tags")),
	}

	result, err := h.service.Export(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err, model.MapErrorToHTTP)
		return
	}

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(result.Language, time.Now())+`"`)
	c.Header("X-Total-Count", strconv.Itoa(result.TotalCount))
	c.Header("X-Truncated", strconv.FormatBool(result.Truncated))
	c.Status(http.StatusOK)

	// header đã gửi, lỗi giữa chừng chỉ log được
	if err := export.WriteXLSX(c.Writer, result.Records); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to write address export")
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
