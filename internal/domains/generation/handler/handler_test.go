package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	addressmodel "address-console/internal/domains/address/model"
	"address-console/internal/domains/generation/model"
	"address-console/internal/shared/inflight"
	"address-console/internal/shared/middleware"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Generate(ctx context.Context, userID string, req model.GenerateRequest) (*model.GenerateResult, error) {
	args := m.Called(ctx, userID, req)
	out, _ := args.Get(0).(*model.GenerateResult)
	return out, args.Error(1)
}

func (m *mockService) GetSystemPrompt(ctx context.Context, language string) (*model.SystemPrompt, error) {
	args := m.Called(ctx, language)
	out, _ := args.Get(0).(*model.SystemPrompt)
	return out, args.Error(1)
}

func (m *mockService) PutSystemPrompt(ctx context.Context, language string, req model.PutSystemPromptRequest) (*model.SystemPrompt, error) {
	args := m.Called(ctx, language, req)
	out, _ := args.Get(0).(*model.SystemPrompt)
	return out, args.Error(1)
}

func router(svc *mockService, limit ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) { c.Set(middleware.ContextUserID, "op-1") })
	NewGenerationHandler(svc).RegisterRoutes(api, limit...)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerate(t *testing.T) {
	svc := &mockService{}
	svc.On("Generate", mock.Anything, "op-1", model.GenerateRequest{Prompt: "Victorian", Count: 2, Language: "en"}).
		Return(&model.GenerateResult{Addresses: []addressmodel.AddressRecord{{ID: "c1"}, {ID: "c2"}}}, nil)

	rec := post(router(svc), "/api/v1/generation", `{"prompt":"Victorian","count":2,"lang":"en"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"c2"`)
}

func TestGenerate_AbortedIsConflict(t *testing.T) {
	svc := &mockService{}
	svc.On("Generate", mock.Anything, "op-1", mock.Anything).Return(nil, inflight.ErrAborted)

	rec := post(router(svc), "/api/v1/generation", `{"prompt":"x"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_ABORTED")
}

func TestGenerate_RateLimited(t *testing.T) {
	svc := &mockService{}
	svc.On("Generate", mock.Anything, "op-1", mock.Anything).Return(&model.GenerateResult{}, nil)
	rl := middleware.NewRateLimiter(1, 1)
	r := router(svc, rl.Limit())

	assert.Equal(t, http.StatusOK, post(r, "/api/v1/generation", `{"prompt":"x"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/api/v1/generation", `{"prompt":"x"}`).Code)
	svc.AssertNumberOfCalls(t, "Generate", 1)
}

func TestSystemPrompt(t *testing.T) {
	svc := &mockService{}
	svc.On("GetSystemPrompt", mock.Anything, "ja").Return(&model.SystemPrompt{Language: "ja", SystemPrompt: "p"}, nil)
	svc.On("PutSystemPrompt", mock.Anything, "ja", model.PutSystemPromptRequest{SystemPrompt: "new"}).
		Return(&model.SystemPrompt{Language: "ja", SystemPrompt: "new"}, nil)
	r := router(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system-prompt?lang=ja", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"systemPrompt":"p"`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/system-prompt?lang=ja", strings.NewReader(`{"systemPrompt":"new"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"systemPrompt":"new"`)
}
