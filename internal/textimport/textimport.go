// Package textimport turns a plain text file into a parts/role conversation, the shape
// the Gemini API uses for contents and the transformer accepts as input.
package textimport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"grammateus/internal/logger"
	"grammateus/internal/yamlcodec"
	"grammateus/pkg/recordtypes"
)

// DefaultOpening is the user turn that precedes imported text.
const DefaultOpening = "Once upon a time, "

// Options configure an import.
type Options struct {
	// Opening is the user turn placed before the text. Empty uses DefaultOpening.
	Opening string
	// Closing, when set, is appended as a final user turn.
	Closing string
}

// Build creates the conversation: the opening as a user turn, the text as a model turn,
// and the closing as a trailing user turn when non-empty.
func Build(opening, text, closing string) []recordtypes.Content {
	records := []recordtypes.Content{
		newContent(recordtypes.SourceRoleUser, opening),
		newContent(recordtypes.SourceRoleModel, text),
	}
	if closing != "" {
		records = append(records, newContent(recordtypes.SourceRoleUser, closing))
	}
	return records
}

func newContent(role, text string) recordtypes.Content {
	return recordtypes.Content{Role: role, Parts: []recordtypes.Part{{Text: text}}}
}

// ImportFile reads textPath and writes the conversation to yamlPath.
// The text is copied verbatim.
func ImportFile(ctx context.Context, textPath, yamlPath string, opts Options) ([]recordtypes.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(textPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file %s: %w", textPath, err)
	}

	opening := opts.Opening
	if opening == "" {
		opening = DefaultOpening
	}
	records := Build(opening, string(data), opts.Closing)

	if dir := filepath.Dir(yamlPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}
	if err := yamlcodec.WriteFile(yamlPath, records); err != nil {
		return nil, err
	}

	logger.FileOperation("import", yamlPath, "source", textPath, "records", len(records))
	return records, nil
}
