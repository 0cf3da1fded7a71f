package action

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInput(t *testing.T) {
	t.Run("maps hyphenated names to INPUT_ variables", func(t *testing.T) {
		t.Setenv("INPUT_GITHUB_REPOSITORY", "owner/repo")
		assert.Equal(t, "owner/repo", GetInput("github-repository"))
	})

	t.Run("upper-cases declared names", func(t *testing.T) {
		t.Setenv("INPUT_TAG_NAME", "v1.2.3")
		assert.Equal(t, "v1.2.3", GetInput("tag-name"))
	})

	t.Run("returns empty string when unset", func(t *testing.T) {
		assert.Equal(t, "", GetInput("never-declared-input"))
	})
}

func TestSetOutput(t *testing.T) {
	t.Run("appends without touching prior content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o644))
		t.Setenv(OutputEnv, path)

		require.NoError(t, SetOutput("changelog-url", "https://github.com/owner/repo/compare/v1.0...v1.1"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "existing=1\n"))
		assert.Contains(t, content, "changelog-url<<ghadelimiter_")
		assert.Contains(t, content, "\nhttps://github.com/owner/repo/compare/v1.0...v1.1\n")
	})

	t.Run("frames multiline values with a matching delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		t.Setenv(OutputEnv, path)

		require.NoError(t, SetOutput("notes", "line one\nline two"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		require.Len(t, lines, 4)
		name, delimiter, ok := strings.Cut(lines[0], "<<")
		require.True(t, ok)
		assert.Equal(t, "notes", name)
		assert.Equal(t, []string{"line one", "line two"}, lines[1:3])
		assert.Equal(t, delimiter, lines[3])
	})

	t.Run("creates the output file if the runner has not", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		t.Setenv(OutputEnv, path)

		require.NoError(t, SetOutput("name", "value"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name<<")
	})

	t.Run("fails when GITHUB_OUTPUT is unset", func(t *testing.T) {
		t.Setenv(OutputEnv, "")
		assert.Error(t, SetOutput("name", "value"))
	})

	t.Run("rejects names containing line breaks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		t.Setenv(OutputEnv, path)

		assert.Error(t, SetOutput("bad\nname", "value"))
	})
}

func TestFormatRecord(t *testing.T) {
	t.Run("refuses a value containing the delimiter", func(t *testing.T) {
		newDelimiter = func() string { return "ghadelimiter_fixed" }
		t.Cleanup(func() {
			newDelimiter = func() string { return "ghadelimiter_" + uuid.NewString() }
		})

		_, err := formatRecord("notes", "before\nghadelimiter_fixed\nafter")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghadelimiter_fixed")
	})

	t.Run("ends the record with the delimiter on its own line", func(t *testing.T) {
		record, err := formatRecord("notes", "no trailing newline")
		require.NoError(t, err)
		name, rest, ok := strings.Cut(record, "<<")
		require.True(t, ok)
		assert.Equal(t, "notes", name)
		delimiter, _, ok := strings.Cut(rest, "\n")
		require.True(t, ok)
		assert.True(t, strings.HasSuffix(record, "\nno trailing newline\n"+delimiter+"\n"))
	})
}

func TestSetEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")
	t.Setenv(EnvFileEnv, path)

	require.NoError(t, SetEnv("RELEASE_TAG", "v2.0.0"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "RELEASE_TAG<<")
	assert.Contains(t, content, "\nv2.0.0\n")
}
