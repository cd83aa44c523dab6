// Package generator produces candidate address records from a prompt.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	addressmodel "address-console/internal/domains/address/model"
	"address-console/internal/domains/generation/model"
	"address-console/internal/infrastructure/catalogapi"
)

// Generator sinh count candidate theo prompt; id của candidate do caller gán lại
type Generator interface {
	Generate(ctx context.Context, req model.GenerateRequest) ([]addressmodel.AddressRecord, error)
}

// ============================================
// CATALOG API
// ============================================

type apiGenerator struct {
	client *catalogapi.Client
}

// NewAPIGenerator dùng endpoint generate của catalog API
func NewAPIGenerator(client *catalogapi.Client) Generator {
	return &apiGenerator{client: client}
}

func (g *apiGenerator) Generate(ctx context.Context, req model.GenerateRequest) ([]addressmodel.AddressRecord, error) {
	var out struct {
		Addresses []addressmodel.AddressRecord `json:"addresses"`
	}
	if err := g.client.Do(ctx, "generate", http.MethodPost, "/addresses/generate", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

// parseCandidates chấp nhận JSON array hoặc object {"addresses": [...]},
// kể cả khi model bọc output trong code fence.
func parseCandidates(text string) ([]addressmodel.AddressRecord, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var list []addressmodel.AddressRecord
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Addresses []addressmodel.AddressRecord `json:"addresses"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, model.NewMalformedOutput(fmt.Errorf("decode candidates: %w", err))
	}
	if wrapped.Addresses == nil {
		return nil, model.NewMalformedOutput(fmt.Errorf("no addresses in model output"))
	}
	return wrapped.Addresses, nil
}
