package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"address-console/internal/domains/tag/model"
	"address-console/internal/infrastructure/catalogapi"
)

// RepositoryInterface đọc tag categories của một language
type RepositoryInterface interface {
	// Categories trả về category -> tags; force yêu cầu backend tính lại
	Categories(ctx context.Context, language string, force bool) (*model.TagCategories, error)
}

// ============================================
// CATALOG API
// ============================================

type httpRepository struct {
	client *catalogapi.Client
}

func NewHTTPRepository(client *catalogapi.Client) RepositoryInterface {
	return &httpRepository{client: client}
}

func (r *httpRepository) Categories(ctx context.Context, language string, force bool) (*model.TagCategories, error) {
	params := url.Values{"lang": {language}}
	if force {
		params.Set("forceRefresh", "true")
	}

	var out model.TagCategories
	if err := r.client.Do(ctx, "tags", http.MethodGet, "/tags", params, nil, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		out.Categories = map[string][]string{}
	}
	out.Language = language
	return &out, nil
}

// ============================================
// POSTGRES
// ============================================

type postgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresRepository tính categories trực tiếp từ cột tags; force không có
// ý nghĩa vì mỗi lần đọc đều là dữ liệu mới nhất.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool, now: time.Now}
}

func (r *postgresRepository) Categories(ctx context.Context, language string, _ bool) (*model.TagCategories, error) {
	query := `
    SELECT DISTINCT tag
    FROM addresses, unnest(tags) AS tag
    WHERE language = $1
  `
	rows, err := r.pool.Query(ctx, query, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return &model.TagCategories{
		Categories:  model.Categorize(tags),
		RefreshedAt: r.now().UnixMilli(),
		Language:    language,
	}, nil
}
