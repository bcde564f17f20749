package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsYAMLFile(t *testing.T) {
	assert.True(t, IsYAMLFile("a.yaml"))
	assert.True(t, IsYAMLFile("a.yml"))
	assert.False(t, IsYAMLFile("a.json"))
	assert.False(t, IsYAMLFile("yaml"))
}

func TestConvertDirectory_Flat(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "converted")

	for i := 0; i < 8; i++ {
		writeFile(t, filepath.Join(in, fmt.Sprintf("chat%02d.yaml", i)), basicInput)
	}
	writeFile(t, filepath.Join(in, "extra.yml"), basicInput)
	writeFile(t, filepath.Join(in, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(in, "sub", "deep.yaml"), basicInput)

	report, err := newTestConverter(false).ConvertDirectory(context.Background(), in, out, DirOptions{Jobs: 3})
	require.NoError(t, err)
	require.Len(t, report.Files, 9)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 0, report.Warnings())

	for i := 1; i < len(report.Files); i++ {
		assert.Less(t, report.Files[i-1].Input, report.Files[i].Input)
	}
	assert.FileExists(t, filepath.Join(out, "extra.yml"))
	assert.NoFileExists(t, filepath.Join(out, "notes.txt"))
	assert.NoDirExists(t, filepath.Join(out, "sub"))
}

func TestConvertDirectory_Recursive(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "top.yaml"), basicInput)
	writeFile(t, filepath.Join(in, "a", "b", "deep.yaml"), basicInput)

	report, err := newTestConverter(false).ConvertDirectory(context.Background(), in, out, DirOptions{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, report.Files, 2)
	assert.FileExists(t, filepath.Join(out, "top.yaml"))
	assert.FileExists(t, filepath.Join(out, "a", "b", "deep.yaml"))
}

func TestConvertDirectory_RecursiveSkipsNestedOutput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "out")

	writeFile(t, filepath.Join(in, "top.yaml"), basicInput)
	writeFile(t, filepath.Join(out, "stale.yaml"), basicInput)

	report, err := newTestConverter(false).ConvertDirectory(context.Background(), in, out, DirOptions{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, report.Files, 1)
}

func TestConvertDirectory_PartialFailure(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "good.yaml"), basicInput)
	writeFile(t, filepath.Join(in, "broken.yaml"), "key: {unclosed")
	writeFile(t, filepath.Join(in, "mapping.yaml"), "a: b\n")
	writeFile(t, filepath.Join(in, "warn.yaml"), "- role: user\n"+basicInput)

	report, err := newTestConverter(true).ConvertDirectory(context.Background(), in, out, DirOptions{Jobs: 2})
	require.ErrorIs(t, err, ErrBatchFailed)
	require.NotNil(t, report)

	assert.Len(t, report.Files, 2)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, filepath.Join(in, "broken.yaml"), report.Failures[0].Input)
	assert.Equal(t, filepath.Join(in, "mapping.yaml"), report.Failures[1].Input)
	assert.Equal(t, 1, report.Warnings())
	assert.FileExists(t, filepath.Join(out, "good.yaml"))
}

func TestConvertDirectory_MissingInput(t *testing.T) {
	_, err := newTestConverter(false).ConvertDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), DirOptions{})
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestConvertDirectory_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.yaml"), basicInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter(false).ConvertDirectory(ctx, in, t.TempDir(), DirOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(in, "a.yaml"))
	assert.NoError(t, statErr)
}
