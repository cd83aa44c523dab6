package model

import (
	"errors"
	"fmt"
	"net/http"

	"address-console/internal/shared/response"
)

// AddressError định nghĩa base error cho address domain
type AddressError struct {
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *AddressError) Unwrap() error {
	return e.Err
}

const (
	CodeAddressNotFound  = "ADDRESS_NOT_FOUND"
	CodeInvalidAddressID = "INVALID_ADDRESS_ID"
	CodeInvalidAddress   = "INVALID_ADDRESS"
	CodeInvalidQuery     = "INVALID_QUERY"
	CodeInvalidImport    = "INVALID_IMPORT"
	CodeListNotLoaded    = "LIST_NOT_LOADED"
)

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewAddressNotFound(id string) *AddressError {
	return &AddressError{
		Code:    CodeAddressNotFound,
		Message: fmt.Sprintf("Address %s not found", id),
	}
}

func NewInvalidAddressID(id string) *AddressError {
	return &AddressError{
		Code:    CodeInvalidAddressID,
		Message: fmt.Sprintf("Invalid address ID: %q", id),
	}
}

func NewInvalidAddress(err error) *AddressError {
	return &AddressError{
		Code:    CodeInvalidAddress,
		Message: "Address is invalid",
		Err:     err,
	}
}

func NewInvalidQuery(err error) *AddressError {
	return &AddressError{
		Code:    CodeInvalidQuery,
		Message: "List query is invalid",
		Err:     err,
	}
}

func NewInvalidImport(err error) *AddressError {
	return &AddressError{
		Code:    CodeInvalidImport,
		Message: "Import payload is not a valid JSON array of addresses",
		Err:     err,
	}
}

func NewListNotLoaded() *AddressError {
	return &AddressError{
		Code:    CodeListNotLoaded,
		Message: "No address list loaded for this session",
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func IsAddressNotFound(err error) bool {
	return GetErrorCode(err) == CodeAddressNotFound
}

// IsDomainError kiểm tra có phải AddressError
func IsDomainError(err error) bool {
	var addrErr *AddressError
	return errors.As(err, &addrErr)
}

// GetErrorCode lấy error code từ error
func GetErrorCode(err error) string {
	var addrErr *AddressError
	if errors.As(err, &addrErr) {
		return addrErr.Code
	}
	return "UNKNOWN_ERROR"
}

// MapErrorToHTTP trả về status, message và code cho handler
func MapErrorToHTTP(err error) (int, string, string) {
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		return response.MapCommonError(err)
	}

	switch addrErr.Code {
	case CodeAddressNotFound:
		return http.StatusNotFound, addrErr.Message, addrErr.Code
	case CodeInvalidAddressID, CodeInvalidAddress, CodeInvalidQuery, CodeInvalidImport:
		msg := addrErr.Message
		if addrErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", addrErr.Message, addrErr.Err)
		}
		return http.StatusBadRequest, msg, addrErr.Code
	case CodeListNotLoaded:
		return http.StatusConflict, addrErr.Message, addrErr.Code
	default:
		return http.StatusInternalServerError, addrErr.Message, addrErr.Code
	}
}
