package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("# "+name+"\n"), 0644))
	return path
}

func writeTable(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTable_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	a := writePrompt(t, tmpDir, "a.md")
	b := writePrompt(t, tmpDir, "b.md")

	tablePath := writeTable(t, tmpDir, "10 a.md\n30 b.md\n")

	entries, err := LoadTable(tablePath)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{Weight: 10, Path: a}, entries[0])
	assert.Equal(t, Entry{Weight: 30, Path: b}, entries[1])
	assert.Equal(t, 40, TotalWeight(entries))
}

func TestLoadTable_SkipsCommentsAndBlanks(t *testing.T) {
	tmpDir := t.TempDir()
	writePrompt(t, tmpDir, "a.md")

	tablePath := writeTable(t, tmpDir, "# header comment\n\n  \n5 a.md\n")

	entries, err := LoadTable(tablePath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Weight)
}

func TestLoadTable_AbsolutePath(t *testing.T) {
	tmpDir := t.TempDir()
	otherDir := t.TempDir()
	abs := writePrompt(t, otherDir, "elsewhere.md")

	tablePath := writeTable(t, tmpDir, "7 "+abs+"\n")

	entries, err := LoadTable(tablePath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, abs, entries[0].Path)
}

func TestLoadTable_SkipsInvalidLines(t *testing.T) {
	tmpDir := t.TempDir()
	writePrompt(t, tmpDir, "good.md")

	tests := []struct {
		name    string
		content string
	}{
		{"non-numeric weight", "abc good.md\n1 good.md\n"},
		{"zero weight", "0 good.md\n1 good.md\n"},
		{"negative weight", "-3 good.md\n1 good.md\n"},
		{"missing path", "10\n1 good.md\n"},
		{"nonexistent file", "10 missing.md\n1 good.md\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tablePath := writeTable(t, tmpDir, tt.content)

			entries, err := LoadTable(tablePath)
			require.NoError(t, err)
			require.Len(t, entries, 1, "only the valid line should survive")
			assert.Equal(t, 1, entries[0].Weight)
		})
	}
}

func TestLoadTable_EmptyTableFails(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"only comments", "# nothing here\n\n"},
		{"only invalid lines", "x y\n0 missing.md\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tablePath := writeTable(t, tmpDir, tt.content)

			_, err := LoadTable(tablePath)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "no valid prompts")
		})
	}
}

func TestLoadTable_MissingTableFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadTable_PathWithSpaces(t *testing.T) {
	tmpDir := t.TempDir()
	spaced := writePrompt(t, tmpDir, "my prompt.md")

	tablePath := writeTable(t, tmpDir, "4 my prompt.md\n")

	entries, err := LoadTable(tablePath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, spaced, entries[0].Path)
}
