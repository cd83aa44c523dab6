package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestUpdateRequest(t *testing.T) {
	assert.NoError(t, UpdateRequest{}.Validate())
	assert.NoError(t, UpdateRequest{Language: strPtr("ja"), Theme: strPtr(ThemeDark)}.Validate())
	assert.Error(t, UpdateRequest{Theme: strPtr("neon")}.Validate())
	assert.Error(t, UpdateRequest{Language: strPtr("")}.Validate())

	base := Settings{Config: ConsoleConfig{Language: "en", Theme: ThemeLight}, User: UserProfile{ID: "op-1"}}
	got := UpdateRequest{Theme: strPtr(ThemeDark)}.Apply(base)
	assert.Equal(t, "en", got.Config.Language)
	assert.Equal(t, ThemeDark, got.Config.Theme)
	assert.Equal(t, "op-1", got.User.ID)
}
