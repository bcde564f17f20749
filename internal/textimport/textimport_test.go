package textimport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grammateus/internal/transform"
	"grammateus/internal/yamlcodec"
	"grammateus/pkg/recordtypes"
)

func TestBuild(t *testing.T) {
	records := Build("Once upon a time", "there was a pig.", "")
	require.Len(t, records, 2)
	assert.Equal(t, "user", records[0].Role)
	assert.Equal(t, "Once upon a time", records[0].Parts[0].Text)
	assert.Equal(t, "model", records[1].Role)
	assert.Equal(t, "there was a pig.", records[1].Parts[0].Text)

	records = Build("a", "b", "Please continue, I am listening.")
	require.Len(t, records, 3)
	assert.Equal(t, "user", records[2].Role)
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "tale.txt")
	yamlPath := filepath.Join(dir, "yaml", "tale.yaml")
	text := "Once there was a sow–and she had “nine” piglets.\n\nThe end.\n"
	require.NoError(t, os.WriteFile(textPath, []byte(text), 0o644))

	records, err := ImportFile(context.Background(), textPath, yamlPath, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, DefaultOpening, records[0].Parts[0].Text)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "- role: user\n  parts:\n"), "role is written before parts")

	decoded, err := yamlcodec.DecodeFile(yamlPath)
	require.NoError(t, err)

	result, err := transform.Transform(decoded)
	require.NoError(t, err)
	assert.Equal(t, []recordtypes.Record{
		{Role: "Human", Text: DefaultOpening},
		{Role: "machine", Text: text},
	}, result.Records)
}

func TestImportFile_MissingText(t *testing.T) {
	_, err := ImportFile(context.Background(), filepath.Join(t.TempDir(), "none.txt"), "out.yaml", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read text file")
}
