package model

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	got := Categorize([]string{
		"era:victorian", "fiction", "era:edwardian", "era:victorian",
		" ", "region:europe", ":odd", "trailing:",
	})

	assert.Equal(t, map[string][]string{
		"era":           {"era:edwardian", "era:victorian"},
		"region":        {"region:europe"},
		GeneralCategory: {":odd", "fiction", "trailing:"},
	}, got)
}

func TestCategorize_Empty(t *testing.T) {
	assert.Empty(t, Categorize(nil))
}

func TestMapErrorToHTTP(t *testing.T) {
	status, _, code := MapErrorToHTTP(NewInvalidLanguage("x"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeInvalidLanguage, code)
}
