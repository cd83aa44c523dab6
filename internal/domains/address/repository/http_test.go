package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-console/internal/domains/address/model"
	"address-console/internal/infrastructure/catalogapi"
)

func newTestRepo(t *testing.T, h http.HandlerFunc) RepositoryInterface {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPRepository(catalogapi.NewClient(srv.URL, time.Second))
}

func TestHTTPRepository_List(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/addresses", r.URL.Path)
		assert.Equal(t, "ja", q.Get("lang"))
		assert.Equal(t, "era:meiji,fiction", q.Get("tags"))
		assert.Equal(t, "48", q.Get("limit"))
		assert.Equal(t, "doc-9", q.Get("lastDocId"))

		_, _ = w.Write([]byte(`{"addresses":[{"id":"a1","name":"One","tags":["fiction"]}],"totalCount":12,"hasMore":true,"lastDocId":"a1"}`))
	})

	page, err := repo.List(context.Background(), model.ListQuery{
		Language:  "ja",
		Tags:      []string{"era:meiji", "fiction"},
		Limit:     48,
		LastDocID: "doc-9",
	})

	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "a1", page.Records[0].ID)
	assert.Equal(t, 12, page.TotalCount)
	assert.True(t, page.HasMore)
	assert.Equal(t, "a1", page.LastDocID)
	assert.Equal(t, "ja", page.Language)
}

func TestHTTPRepository_List_OmitsEmptyParams(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("tags"))
		assert.False(t, q.Has("limit"))
		assert.False(t, q.Has("lastDocId"))
		_, _ = w.Write([]byte(`{"totalCount":0,"hasMore":false,"lastDocId":""}`))
	})

	page, err := repo.List(context.Background(), model.ListQuery{Language: "en"})
	require.NoError(t, err)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestHTTPRepository_CreateUpdateDelete(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		switch r.Method {
		case http.MethodPost:
			var rec model.AddressRecord
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
			assert.Equal(t, "Baker Street", rec.Name)
			_, _ = w.Write([]byte(`{"id":"created-1"}`))
		case http.MethodPut:
			assert.Equal(t, "/addresses/a%2F1", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`{"id":"a/1","name":"Renamed","updatedAt":1700000000000}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"id":"a/1"}`))
		}
	})
	ctx := context.Background()

	id, err := repo.Create(ctx, "en", model.AddressRecord{Name: "Baker Street"})
	require.NoError(t, err)
	assert.Equal(t, "created-1", id)

	updated, err := repo.Update(ctx, "en", model.AddressRecord{ID: "a/1", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), updated.UpdatedAt)

	deleted, err := repo.Delete(ctx, "en", "a/1")
	require.NoError(t, err)
	assert.Equal(t, "a/1", deleted)
}

func TestHTTPRepository_ErrorSurfacedVerbatim(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"operator is not an admin"}`))
	})

	_, err := repo.Delete(context.Background(), "en", "x")

	var apiErr *catalogapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "operator is not an admin", apiErr.Message)
}
