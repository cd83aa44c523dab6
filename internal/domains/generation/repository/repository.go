package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"address-console/internal/infrastructure/catalogapi"
)

// PromptRepository lưu system prompt theo language. Prompt chưa tồn tại trả về "".
type PromptRepository interface {
	Get(ctx context.Context, language string) (string, error)
	Put(ctx context.Context, language, prompt string) (string, error)
}

type promptBody struct {
	SystemPrompt string `json:"systemPrompt"`
}

// ============================================
// CATALOG API
// ============================================

type httpPromptRepository struct {
	client *catalogapi.Client
}

func NewHTTPPromptRepository(client *catalogapi.Client) PromptRepository {
	return &httpPromptRepository{client: client}
}

func (r *httpPromptRepository) Get(ctx context.Context, language string) (string, error) {
	var out promptBody
	err := r.client.Do(ctx, "system_prompt_get", http.MethodGet, "/system-prompt", url.Values{"lang": {language}}, nil, &out)
	if err != nil {
		return "", err
	}
	return out.SystemPrompt, nil
}

func (r *httpPromptRepository) Put(ctx context.Context, language, prompt string) (string, error) {
	var out promptBody
	err := r.client.Do(ctx, "system_prompt_put", http.MethodPut, "/system-prompt", url.Values{"lang": {language}}, promptBody{SystemPrompt: prompt}, &out)
	if err != nil {
		return "", err
	}
	if out.SystemPrompt == "" {
		out.SystemPrompt = prompt
	}
	return out.SystemPrompt, nil
}

// ============================================
// POSTGRES
// ============================================

type postgresPromptRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresPromptRepository(pool *pgxpool.Pool) PromptRepository {
	return &postgresPromptRepository{pool: pool, now: time.Now}
}

func (r *postgresPromptRepository) Get(ctx context.Context, language string) (string, error) {
	var prompt string
	err := r.pool.QueryRow(ctx, `SELECT prompt FROM system_prompts WHERE language = $1`, language).Scan(&prompt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system prompt: %w", err)
	}
	return prompt, nil
}

func (r *postgresPromptRepository) Put(ctx context.Context, language, prompt string) (string, error) {
	query := `
    INSERT INTO system_prompts (language, prompt, updated_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (language) DO UPDATE SET prompt = EXCLUDED.prompt, updated_at = EXCLUDED.updated_at
  `
	if _, err := r.pool.Exec(ctx, query, language, prompt, r.now().UnixMilli()); err != nil {
		return "", fmt.Errorf("failed to save system prompt: %w", err)
	}
	return prompt, nil
}
