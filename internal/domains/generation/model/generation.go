package model

import (
	addressmodel "address-console/internal/domains/address/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"

	MaxPromptLength       = 8000
	MaxSystemPromptLength = 32000
)

// DefaultSystemPrompt dùng khi language chưa có system prompt nào được lưu
const DefaultSystemPrompt = `You generate fictional or historical postal addresses for a correspondence product.
Return only a JSON array. Each element is an object with the fields
"name", "tags" (array of strings, use "category:value" where a category applies),
"description" (one or two sentences) and "address" with "buildingName", "line1",
"line2", "city", "region", "postalCode" and "country". Omit nothing; use "" for
unknown optional fields.`

// GenerateRequest là input của một lần generate
type GenerateRequest struct {
	Prompt          string `json:"prompt"`
	SystemPrompt    string `json:"systemPrompt"`
	Model           string `json:"model"`
	ReasoningEffort string `json:"reasoningEffort"`
	Count           int    `json:"count"`
	Language        string `json:"lang"`
}

// Validate chạy sau khi defaults đã được áp dụng
func (r GenerateRequest) Validate(maxCount int) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.Required.Error("prompt is required"), validation.Length(1, MaxPromptLength)),
		validation.Field(&r.SystemPrompt, validation.Length(0, MaxSystemPromptLength)),
		validation.Field(&r.Model, validation.Required),
		validation.Field(&r.ReasoningEffort, validation.Required, validation.In(EffortLow, EffortMedium, EffortHigh)),
		validation.Field(&r.Count, validation.Required, validation.Min(1), validation.Max(maxCount)),
		validation.Field(&r.Language, validation.Required, validation.Length(2, 16)),
	)
}

// GenerateResult là các candidate chưa được lưu; id là ephemeral do console gán
type GenerateResult struct {
	Addresses []addressmodel.AddressRecord `json:"addresses"`
	Model     string                       `json:"model"`
	Language  string                       `json:"language"`
}

// SystemPrompt là prompt điều hướng generation của một language
type SystemPrompt struct {
	Language     string `json:"language"`
	SystemPrompt string `json:"systemPrompt"`
}

type PutSystemPromptRequest struct {
	SystemPrompt string `json:"systemPrompt"`
}

func (r PutSystemPromptRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SystemPrompt, validation.Required, validation.Length(1, MaxSystemPromptLength)),
	)
}
