package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"address-console/internal/domains/address/model"
)

func TestBuildPage(t *testing.T) {
	recs := []model.AddressRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("extra row means more", func(t *testing.T) {
		page := buildPage(recs, 2, 10, "en")
		assert.Len(t, page.Records, 2)
		assert.True(t, page.HasMore)
		assert.Equal(t, "b", page.LastDocID)
		assert.Equal(t, 10, page.TotalCount)
		assert.Equal(t, "en", page.Language)
	})

	t.Run("last batch", func(t *testing.T) {
		page := buildPage(recs, 3, 3, "en")
		assert.Len(t, page.Records, 3)
		assert.False(t, page.HasMore)
		assert.Equal(t, "c", page.LastDocID)
	})

	t.Run("empty", func(t *testing.T) {
		page := buildPage([]model.AddressRecord{}, 3, 0, "en")
		assert.False(t, page.HasMore)
		assert.Equal(t, "", page.LastDocID)
	})
}

func TestNonNilTags(t *testing.T) {
	assert.Equal(t, []string{}, nonNilTags(nil))
	assert.Equal(t, []string{"x"}, nonNilTags([]string{"x"}))
}
