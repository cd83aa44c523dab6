package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/shared/inflight"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapCommonError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"aborted", fmt.Errorf("load: %w", inflight.ErrAborted), http.StatusConflict, CodeRequestAborted, ""},
		{"context canceled", context.Canceled, http.StatusConflict, CodeRequestAborted, ""},
		{"upstream 5xx", &catalogapi.APIError{Status: 503, Message: "catalog down"}, http.StatusBadGateway, "UPSTREAM_ERROR", "catalog down"},
		{"upstream 4xx", &catalogapi.APIError{Status: 404, Message: "no such address"}, http.StatusNotFound, "UPSTREAM_ERROR", "no such address"},
		{"unsupported", fmt.Errorf("generate: %w", ErrUnsupported), http.StatusNotImplemented, "UNSUPPORTED", ""},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, code := MapCommonError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, msg)
			}
		})
	}
}

func TestFromError_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	FromError(c, inflight.ErrAborted, MapCommonError)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeRequestAborted, c.GetString(ContextErrorCode))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeRequestAborted, body.Error.Code)
}

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SuccessWithMeta(c, http.StatusOK, []string{"a"}, &Meta{Page: 2, TotalPages: 3, HasMore: true})

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Meta    Meta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a"}, body.Data)
	assert.Equal(t, Meta{Page: 2, TotalPages: 3, HasMore: true}, body.Meta)
}
