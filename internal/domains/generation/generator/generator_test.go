package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-console/internal/domains/generation/model"
	"address-console/internal/infrastructure/catalogapi"
)

func TestAPIGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/addresses/generate", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Victorian London", body["prompt"])
		assert.Equal(t, "high", body["reasoningEffort"])
		assert.Equal(t, float64(2), body["count"])
		assert.Equal(t, "en", body["lang"])
		_, _ = w.Write([]byte(`{"addresses":[{"id":"tmp","name":"A"},{"name":"B"}]}`))
	}))
	defer srv.Close()

	gen := NewAPIGenerator(catalogapi.NewClient(srv.URL, time.Second))
	got, err := gen.Generate(context.Background(), model.GenerateRequest{
		Prompt: "Victorian London", ReasoningEffort: "high", Count: 2, Language: "en", Model: "m",
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].Name)
}

func TestParseCandidates(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := parseCandidates(`[{"name":"A"}]`)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("wrapped in fence", func(t *testing.T) {
		got, err := parseCandidates("```json\n{\"addresses\":[{\"name\":\"A\"},{\"name\":\"B\"}]}\n```")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseCandidates(`I cannot help with that`)
		var genErr *model.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, model.CodeMalformedOutput, genErr.Code)
	})

	t.Run("object without addresses", func(t *testing.T) {
		_, err := parseCandidates(`{"other":1}`)
		assert.Error(t, err)
	})
}

func TestGenerateConfig(t *testing.T) {
	cfg := generateConfig(model.GenerateRequest{SystemPrompt: "sys", ReasoningEffort: model.EffortLow})

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.SystemInstruction)
	require.NotNil(t, cfg.ThinkingConfig)
	assert.Equal(t, int32(1024), *cfg.ThinkingConfig.ThinkingBudget)

	cfg = generateConfig(model.GenerateRequest{ReasoningEffort: "unknown"})
	assert.Nil(t, cfg.SystemInstruction)
	assert.Nil(t, cfg.ThinkingConfig)
}

func TestUserPrompt(t *testing.T) {
	p := userPrompt(model.GenerateRequest{Prompt: "Meiji-era Tokyo", Count: 3, Language: "ja"})
	assert.Contains(t, p, "exactly 3")
	assert.Contains(t, p, `"ja"`)
	assert.Contains(t, p, "Meiji-era Tokyo")
}

func TestNewGenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), "")
	assert.Error(t, err)
}
