package yamlcodec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// RoundTrip parses data into a node tree and re-encodes it.
// Comments, key order and scalar styles survive; formatting may be normalized.
func RoundTrip(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Diff renders the character-level differences between before and after,
// one change per line. Equal runs are abbreviated. It returns "" when the inputs match.
func Diff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var sb strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&sb, "- %q\n", diff.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&sb, "+ %q\n", diff.Text)
		case diffmatchpatch.DiffEqual:
			if runes := []rune(diff.Text); len(runes) > 50 {
				fmt.Fprintf(&sb, "  %q...\n", string(runes[:47]))
			} else {
				fmt.Fprintf(&sb, "  %q\n", diff.Text)
			}
		}
	}
	return sb.String()
}
