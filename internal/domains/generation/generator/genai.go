package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	addressmodel "address-console/internal/domains/address/model"
	"address-console/internal/domains/generation/model"
)

// thinking budget (tokens) theo reasoning effort
var thinkingBudgets = map[string]int32{
	model.EffortLow:    1024,
	model.EffortMedium: 8192,
	model.EffortHigh:   24576,
}

// GenAIGenerator gọi thẳng Gemini, không qua catalog API
type GenAIGenerator struct {
	client *genai.Client
}

func NewGenAIGenerator(ctx context.Context, apiKey string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, req model.GenerateRequest) ([]addressmodel.AddressRecord, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		req.Model,
		genai.Text(userPrompt(req)),
		generateConfig(req),
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	return parseCandidates(result.Text())
}

func generateConfig(req model.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if budget, ok := thinkingBudgets[req.ReasoningEffort]; ok {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(budget)}
	}
	return cfg
}

func userPrompt(req model.GenerateRequest) string {
	return fmt.Sprintf("Generate exactly %d addresses. Write all text in language %q.\n\n%s",
		req.Count, req.Language, req.Prompt)
}
