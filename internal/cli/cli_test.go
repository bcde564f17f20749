package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"grammateus/internal/continuation"
	"grammateus/internal/convert"
	"grammateus/internal/logger"
	"grammateus/internal/transform"
	"grammateus/internal/yamlcodec"
)

const conversation = `- parts:
    - text: what is it?
  role: user
- parts:
    - text: this is a response
  role: model
`

type stubGenerator struct {
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	texts    []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.contents = contents
	s.config = config
	resp := &genai.GenerateContentResponse{}
	for _, text := range s.texts {
		resp.Candidates = append(resp.Candidates, &genai.Candidate{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		})
	}
	return resp, nil
}

// run executes the CLI with args in an isolated environment and returns stdout.
func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GRAMMATEUS_LOG_LEVEL", "error")
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	if app == nil {
		app = NewApp()
	}
	root := app.CreateRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTransformCommand_File(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.yaml")
	out := filepath.Join(dir, "output.yaml")
	write(t, in, conversation)

	stdout, err := run(t, nil, "transform", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted 1 file(s): 2 record(s) written, 0 warning(s)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "- role: Human\n  text: what is it?\n- role: machine\n  text: this is a response\n", string(data))
}

func TestTransformCommand_Directory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "a.yaml"), conversation)
	write(t, filepath.Join(in, "nested", "b.yml"), "- role: user\n"+conversation)

	stdout, err := run(t, nil, "transform", "-r", "-j", "2", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted 2 file(s): 4 record(s) written, 1 warning(s)")
	assert.FileExists(t, filepath.Join(out, "nested", "b.yml"))
}

func TestTransformCommand_Failures(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, nil, "transform", filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "out.yaml"))
	assert.ErrorIs(t, err, convert.ErrInputNotFound)

	mapping := filepath.Join(dir, "mapping.yaml")
	write(t, mapping, "this: is not the expected structure\n")
	stdout, err := run(t, nil, "transform", mapping, filepath.Join(dir, "out.yaml"))
	assert.ErrorIs(t, err, transform.ErrInvalidInputShape)
	assert.Contains(t, stdout, "Failed: "+mapping)

	_, err = run(t, nil, "transform", dir)
	assert.Error(t, err)
}

func TestImportTextCommand(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "tale.txt")
	yamlPath := filepath.Join(dir, "tale.yaml")
	write(t, textPath, "a sow had nine piglets")

	stdout, err := run(t, nil, "import-text", "--opening", "Once upon a time, when pigs drank wine ", "--closing", "Please continue.", textPath, yamlPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 3 record(s)")

	v, err := yamlcodec.DecodeFile(yamlPath)
	require.NoError(t, err)
	result, err := transform.Transform(v)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "Once upon a time, when pigs drank wine ", result.Records[0].Text)
	assert.Equal(t, "a sow had nine piglets", result.Records[1].Text)
	assert.Equal(t, "machine", result.Records[1].Role)
}

func TestRoundTripCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "standard_messages.yaml")
	out := filepath.Join(dir, "write_test_standard_messages.yaml")
	write(t, in, "# kept\n"+conversation)

	stdout, err := run(t, nil, "roundtrip", "--diff", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done!")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# kept"))
}

func TestContinueCommand(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	dir := t.TempDir()
	params := filepath.Join(dir, "params.yaml")
	write(t, params, "model: gemini-2.5-flash\nn: 2\n")
	history := filepath.Join(dir, "history.yaml")
	write(t, history, conversation)

	stub := &stubGenerator{texts: []string{"Yes.", "No."}}
	app := NewApp()
	var gotKey string
	app.NewGenerator = func(apiKey string) continuation.Generator {
		gotKey = apiKey
		return stub
	}

	stdout, err := run(t, app, "continue", "--params", params, "--history", history, "--instruction", "Be terse.", "Were there any coups", "after that?")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, stdout, "--- candidate 1 ---\nYes.\n")
	assert.Contains(t, stdout, "--- candidate 2 ---\nNo.\n")
	require.Len(t, stub.contents, 3)
	assert.Equal(t, "Were there any coups after that?", stub.contents[2].Parts[0].Text)
	assert.Equal(t, "Be terse.", stub.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(2), stub.config.CandidateCount)
}

func TestContinueCommand_NotConfigured(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GRAMMATEUS_GEMINI_API_KEY", "")

	_, err := run(t, nil, "continue", "hello")
	assert.ErrorIs(t, err, continuation.ErrNotConfigured)
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "grammateus v"))

	stdout, err = run(t, nil, "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Platform:")
}
