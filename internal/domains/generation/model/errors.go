package model

import (
	"errors"
	"fmt"
	"net/http"

	"address-console/internal/shared/response"
)

// GenerationError định nghĩa base error cho generation domain
type GenerationError struct {
	Code    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

const (
	CodeInvalidRequest      = "INVALID_GENERATION_REQUEST"
	CodeInvalidSystemPrompt = "INVALID_SYSTEM_PROMPT"
	CodeMalformedOutput     = "MALFORMED_MODEL_OUTPUT"
)

func NewInvalidRequest(err error) *GenerationError {
	return &GenerationError{Code: CodeInvalidRequest, Message: "Generation request is invalid", Err: err}
}

func NewInvalidSystemPrompt(err error) *GenerationError {
	return &GenerationError{Code: CodeInvalidSystemPrompt, Message: "System prompt is invalid", Err: err}
}

func NewMalformedOutput(err error) *GenerationError {
	return &GenerationError{Code: CodeMalformedOutput, Message: "Model returned output that is not an address list", Err: err}
}

// MapErrorToHTTP trả về status, message và code cho handler
func MapErrorToHTTP(err error) (int, string, string) {
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		return response.MapCommonError(err)
	}

	switch genErr.Code {
	case CodeInvalidRequest, CodeInvalidSystemPrompt:
		msg := genErr.Message
		if genErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", genErr.Message, genErr.Err)
		}
		return http.StatusBadRequest, msg, genErr.Code
	case CodeMalformedOutput:
		return http.StatusBadGateway, genErr.Message, genErr.Code
	default:
		return http.StatusInternalServerError, genErr.Message, genErr.Code
	}
}
