package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"address-console/internal/domains/address/model"
	"address-console/internal/infrastructure/catalogapi"
)

type httpRepository struct {
	client *catalogapi.Client
}

// NewHTTPRepository dùng remote catalog API làm backend
func NewHTTPRepository(client *catalogapi.Client) RepositoryInterface {
	return &httpRepository{client: client}
}

type idResponse struct {
	ID string `json:"id"`
}

func (r *httpRepository) List(ctx context.Context, q model.ListQuery) (model.AddressPage, error) {
	params := url.Values{}
	params.Set("lang", q.Language)
	if len(q.Tags) > 0 {
		params.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.LastDocID != "" {
		params.Set("lastDocId", q.LastDocID)
	}

	var page model.AddressPage
	if err := r.client.Do(ctx, "list", http.MethodGet, "/addresses", params, nil, &page); err != nil {
		return model.AddressPage{}, err
	}
	if page.Records == nil {
		page.Records = []model.AddressRecord{}
	}
	page.Language = q.Language
	return page, nil
}

func (r *httpRepository) Create(ctx context.Context, language string, record model.AddressRecord) (string, error) {
	var out idResponse
	err := r.client.Do(ctx, "create", http.MethodPost, "/addresses", langQuery(language), record, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (r *httpRepository) Update(ctx context.Context, language string, record model.AddressRecord) (model.AddressRecord, error) {
	var out model.AddressRecord
	path := "/addresses/" + url.PathEscape(record.ID)
	if err := r.client.Do(ctx, "update", http.MethodPut, path, langQuery(language), record, &out); err != nil {
		return model.AddressRecord{}, err
	}
	if out.ID == "" {
		out.ID = record.ID
	}
	return out, nil
}

func (r *httpRepository) Delete(ctx context.Context, language, id string) (string, error) {
	var out idResponse
	path := "/addresses/" + url.PathEscape(id)
	if err := r.client.Do(ctx, "delete", http.MethodDelete, path, langQuery(language), nil, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out.ID, nil
}

func langQuery(language string) url.Values {
	return url.Values{"lang": {language}}
}
