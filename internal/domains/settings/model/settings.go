package model

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"address-console/internal/shared/response"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Settings là state được persist cho mỗi operator
type Settings struct {
	Config ConsoleConfig `json:"config"`
	User   UserProfile   `json:"user"`
}

type ConsoleConfig struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// UpdateRequest chỉ thay các field được gửi lên
type UpdateRequest struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Language, validation.NilOrNotEmpty, validation.Length(2, 16)),
		validation.Field(&r.Theme, validation.NilOrNotEmpty, validation.In(ThemeLight, ThemeDark, ThemeSystem)),
	)
}

// Apply merge request vào settings
func (r UpdateRequest) Apply(s Settings) Settings {
	if r.Language != nil {
		s.Config.Language = *r.Language
	}
	if r.Theme != nil {
		s.Config.Theme = *r.Theme
	}
	return s
}

type SettingsError struct {
	Code    string
	Message string
	Err     error
}

func (e *SettingsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SettingsError) Unwrap() error { return e.Err }

const CodeInvalidSettings = "INVALID_SETTINGS"

func NewInvalidSettings(err error) *SettingsError {
	return &SettingsError{Code: CodeInvalidSettings, Message: "Settings are invalid", Err: err}
}

func MapErrorToHTTP(err error) (int, string, string) {
	var sErr *SettingsError
	if errors.As(err, &sErr) {
		msg := sErr.Message
		if sErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", sErr.Message, sErr.Err)
		}
		return http.StatusBadRequest, msg, sErr.Code
	}
	return response.MapCommonError(err)
}
