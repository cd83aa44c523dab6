package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	addressmodel "address-console/internal/domains/address/model"
	"address-console/internal/domains/generation/generator"
	"address-console/internal/domains/generation/model"
	"address-console/internal/domains/generation/repository"
	"address-console/internal/shared/inflight"
)

type ServiceInterface interface {
	// Generate sinh candidate addresses; request mới của cùng operator abort request cũ
	Generate(ctx context.Context, userID string, req model.GenerateRequest) (*model.GenerateResult, error)

	// GetSystemPrompt trả về prompt đã lưu, hoặc DefaultSystemPrompt nếu chưa có
	GetSystemPrompt(ctx context.Context, language string) (*model.SystemPrompt, error)

	PutSystemPrompt(ctx context.Context, language string, req model.PutSystemPromptRequest) (*model.SystemPrompt, error)
}

type Config struct {
	DefaultModel    string
	DefaultEffort   string
	DefaultCount    int
	MaxCount        int
	DefaultLanguage string
}

type generationService struct {
	generator generator.Generator
	prompts   repository.PromptRepository
	cfg       Config
	guard     *inflight.Guard
	newID     func() string
}

func NewGenerationService(gen generator.Generator, prompts repository.PromptRepository, cfg Config) ServiceInterface {
	if cfg.MaxCount < 1 {
		cfg.MaxCount = 20
	}
	if cfg.DefaultCount < 1 {
		cfg.DefaultCount = 5
	}
	return &generationService{
		generator: gen,
		prompts:   prompts,
		cfg:       cfg,
		guard:     inflight.New(),
		newID:     uuid.NewString,
	}
}

func (s *generationService) applyDefaults(req *model.GenerateRequest) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Model == "" {
		req.Model = s.cfg.DefaultModel
	}
	if req.ReasoningEffort == "" {
		req.ReasoningEffort = s.cfg.DefaultEffort
	}
	req.ReasoningEffort = strings.ToLower(req.ReasoningEffort)
	if req.Count == 0 {
		req.Count = s.cfg.DefaultCount
	}
	if req.Language == "" {
		req.Language = s.cfg.DefaultLanguage
	}
}

func (s *generationService) Generate(ctx context.Context, userID string, req model.GenerateRequest) (*model.GenerateResult, error) {
	s.applyDefaults(&req)
	if err := req.Validate(s.cfg.MaxCount); err != nil {
		return nil, model.NewInvalidRequest(err)
	}

	ctx, ticket := s.guard.Begin(ctx, "generate:"+userID)
	defer ticket.Done()

	if strings.TrimSpace(req.SystemPrompt) == "" {
		prompt, err := s.systemPrompt(ctx, req.Language)
		if err != nil {
			return nil, abortedOr(ctx, err)
		}
		req.SystemPrompt = prompt
	}

	candidates, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, abortedOr(ctx, err)
	}
	if !ticket.Current() {
		return nil, inflight.Aborted(ctx)
	}

	if len(candidates) > req.Count {
		candidates = candidates[:req.Count]
	}

	// id ephemeral do console gán, không tin id từ model
	for i := range candidates {
		candidates[i].ID = s.newID()
		if candidates[i].Tags == nil {
			candidates[i].Tags = []string{}
		}
	}
	if candidates == nil {
		candidates = []addressmodel.AddressRecord{}
	}

	log.Info().
		Str("user_id", userID).
		Str("model", req.Model).
		Str("effort", req.ReasoningEffort).
		Int("requested", req.Count).
		Int("generated", len(candidates)).
		Msg("addresses generated")

	return &model.GenerateResult{
		Addresses: candidates,
		Model:     req.Model,
		Language:  req.Language,
	}, nil
}

func (s *generationService) systemPrompt(ctx context.Context, language string) (string, error) {
	prompt, err := s.prompts.Get(ctx, language)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		return model.DefaultSystemPrompt, nil
	}
	return prompt, nil
}

func (s *generationService) GetSystemPrompt(ctx context.Context, language string) (*model.SystemPrompt, error) {
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	prompt, err := s.systemPrompt(ctx, language)
	if err != nil {
		return nil, err
	}
	return &model.SystemPrompt{Language: language, SystemPrompt: prompt}, nil
}

func (s *generationService) PutSystemPrompt(ctx context.Context, language string, req model.PutSystemPromptRequest) (*model.SystemPrompt, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidSystemPrompt(err)
	}
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	saved, err := s.prompts.Put(ctx, language, req.SystemPrompt)
	if err != nil {
		return nil, err
	}
	log.Info().Str("language", language).Int("length", len(saved)).Msg("system prompt updated")
	return &model.SystemPrompt{Language: language, SystemPrompt: saved}, nil
}

func abortedOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return inflight.Aborted(ctx)
	}
	return err
}
