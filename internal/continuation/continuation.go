package continuation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
	"gopkg.in/yaml.v3"

	"grammateus/internal/logger"
	"grammateus/pkg/recordtypes"
)

// Request is one continuation.
type Request struct {
	// Instruction is the system instruction. Empty uses DefaultInstruction.
	Instruction string
	// History is sent before Text, in order.
	History []recordtypes.Content
	// Text is sent as the final user turn.
	Text string
}

// Response holds one continuation per candidate, in candidate order.
type Response struct {
	Model      string
	Candidates []string
}

// Text returns the first candidate, or "" when there is none.
func (r *Response) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0]
}

// Client runs continuations with fixed generation parameters.
type Client struct {
	gen    Generator
	params Params
}

// NewClient creates a client. params are validated here so bad input fails before any request.
func NewClient(gen Generator, params Params) (*Client, error) {
	if gen == nil {
		return nil, ErrNotConfigured
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Client{gen: gen, params: params}, nil
}

// Params returns the client's generation parameters.
func (c *Client) Params() Params {
	return c.params
}

// Continue sends the request and collects the text of every candidate.
// Thought parts are skipped.
func (c *Client) Continue(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Text) == "" && len(req.History) == 0 {
		return nil, errors.New("nothing to continue: text and history are empty")
	}

	instruction := req.Instruction
	if instruction == "" {
		instruction = DefaultInstruction
	}

	contents := BuildContents(req.History, req.Text)
	config := c.params.GenerationConfig(instruction)
	logger.Debug("Gemini continuation starting", "model", c.params.Model, "content_count", len(contents))

	result, err := c.gen.GenerateContent(ctx, c.params.Model, contents, config)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("no candidates in response")
	}

	resp := &Response{Model: c.params.Model}
	for _, candidate := range result.Candidates {
		resp.Candidates = append(resp.Candidates, candidateText(candidate))
	}
	logger.Debug("Gemini continuation received", "candidates", len(resp.Candidates))
	return resp, nil
}

// BuildContents converts history plus a trailing user text into Gemini contents.
// Roles are passed through unchanged; an empty text adds no turn.
func BuildContents(history []recordtypes.Content, text string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, h := range history {
		parts := make([]*genai.Part, 0, len(h.Parts))
		for _, p := range h.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{Role: h.Role, Parts: parts})
	}
	if text != "" {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	return contents
}

func candidateText(candidate *genai.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// LoadHistory reads a parts/role YAML file.
func LoadHistory(path string) ([]recordtypes.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", path, err)
	}
	var history []recordtypes.Content
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}
	return history, nil
}
