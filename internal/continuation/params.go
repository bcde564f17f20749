// Package continuation asks a Gemini model to continue a text, optionally after an existing
// parts/role conversation.
package continuation

import (
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParams is returned when generation parameters are out of range.
var ErrInvalidParams = errors.New("invalid generation parameters")

// DefaultInstruction is the system instruction used when none is given.
const DefaultInstruction = "You are an eloquent assistant."

// Params are the generation parameters, read from a YAML block.
type Params struct {
	Model         string   `yaml:"model"`
	MimeType      string   `yaml:"mime_type"`
	Modalities    []string `yaml:"modalities"`
	MaxTokens     int      `yaml:"max_tokens"`
	N             int      `yaml:"n"`
	StopSequences []string `yaml:"stop_sequences"`
	Temperature   float64  `yaml:"temperature"`
	TopK          int      `yaml:"top_k"`
	TopP          float64  `yaml:"top_p"`
	// Thinking is the thinking token budget: 0 disables thinking, -1 lets the model decide.
	Thinking int `yaml:"thinking"`
}

// DefaultParams returns the parameters used when no params file is given.
func DefaultParams() Params {
	return Params{
		Model:         "gemini-2.5-pro",
		MimeType:      "text/plain",
		Modalities:    []string{"TEXT"},
		MaxTokens:     12768,
		N:             2,
		StopSequences: []string{"STOP", "\nTitle"},
		Temperature:   0.5,
		TopK:          10,
		TopP:          0.5,
		Thinking:      0,
	}
}

// ParseParams decodes a YAML block over the defaults; keys not present keep their default.
func ParseParams(data []byte) (Params, error) {
	p := DefaultParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("failed to parse generation parameters: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadParams reads and parses a params file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read parameters file %s: %w", path, err)
	}
	return ParseParams(data)
}

// Validate checks the parameter ranges the API accepts.
func (p Params) Validate() error {
	switch {
	case p.Model == "":
		return fmt.Errorf("%w: model is required", ErrInvalidParams)
	case p.Temperature < 0 || p.Temperature > 2:
		return fmt.Errorf("%w: temperature %v not in [0, 2]", ErrInvalidParams, p.Temperature)
	case p.TopP < 0 || p.TopP > 1:
		return fmt.Errorf("%w: top_p %v not in [0, 1]", ErrInvalidParams, p.TopP)
	case p.TopK < 0:
		return fmt.Errorf("%w: top_k must not be negative", ErrInvalidParams)
	case p.N < 1:
		return fmt.Errorf("%w: n must be at least 1", ErrInvalidParams)
	case p.MaxTokens < 1:
		return fmt.Errorf("%w: max_tokens must be at least 1", ErrInvalidParams)
	case p.Thinking < -1:
		return fmt.Errorf("%w: thinking must be -1, 0 or a positive budget", ErrInvalidParams)
	}
	return nil
}

// GenerationConfig converts the parameters into a Gemini request config.
func (p Params) GenerationConfig(instruction string) *genai.GenerateContentConfig {
	temperature := float32(p.Temperature)
	topP := float32(p.TopP)

	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		TopP:             &topP,
		CandidateCount:   int32(p.N),
		MaxOutputTokens:  int32(p.MaxTokens),
		StopSequences:    p.StopSequences,
		ResponseMIMEType: p.MimeType,
	}
	if len(p.Modalities) > 0 {
		config.ResponseModalities = p.Modalities
	}
	if p.TopK > 0 {
		topK := float32(p.TopK)
		config.TopK = &topK
	}
	if instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}

	switch {
	case p.Thinking == -1:
		config.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	case p.Thinking == 0:
		budget := int32(0)
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	case p.Thinking > 0:
		budget := int32(p.Thinking)
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget, IncludeThoughts: true}
	}

	return config
}
