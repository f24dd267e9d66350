package prompt

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(11))
}

func TestNewSource_DefaultUsesBuiltins(t *testing.T) {
	promptsDir := t.TempDir()

	src, err := NewSource(Options{PromptsDir: promptsDir, Rand: testRand()})
	require.NoError(t, err)

	assert.Equal(t, "random weighted selection", src.Mode())
	require.Len(t, src.Table(), 3)
	assert.Equal(t, 50, src.Table()[0].Weight)
	assert.Equal(t, 30, src.Table()[1].Weight)
	assert.Equal(t, 20, src.Table()[2].Weight)

	// Built-ins were materialized on disk.
	assert.FileExists(t, filepath.Join(promptsDir, ForwardProgressFile))
	assert.FileExists(t, filepath.Join(promptsDir, OptimizationFile))
	assert.FileExists(t, filepath.Join(promptsDir, GardeningFile))
}

func TestNewSource_MaterializeKeepsExistingFiles(t *testing.T) {
	promptsDir := t.TempDir()
	custom := []byte("# locally edited\n")
	require.NoError(t, os.WriteFile(filepath.Join(promptsDir, OptimizationFile), custom, 0644))

	_, err := NewSource(Options{PromptsDir: promptsDir, Rand: testRand()})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(promptsDir, OptimizationFile))
	require.NoError(t, err)
	assert.Equal(t, custom, data, "existing prompt files must not be overwritten")
}

func TestSource_CustomThenWeighted(t *testing.T) {
	promptsDir := t.TempDir()
	tmpDir := t.TempDir()
	p1 := writePrompt(t, tmpDir, "one.md")
	p2 := writePrompt(t, tmpDir, "two.md")

	src, err := NewSource(Options{
		Custom:     []string{p1, p2},
		PromptsDir: promptsDir,
		Rand:       testRand(),
	})
	require.NoError(t, err)

	path, kind := src.ForIteration(1)
	assert.Equal(t, p1, path)
	assert.Equal(t, KindCustom, kind)

	path, kind = src.ForIteration(2)
	assert.Equal(t, p2, path)
	assert.Equal(t, KindCustom, kind)

	for i := 3; i <= 5; i++ {
		path, kind = src.ForIteration(i)
		assert.Equal(t, KindSelected, kind)
		assert.Equal(t, promptsDir, filepath.Dir(path), "iterations past the custom prompts draw from built-ins")
	}
}

func TestSource_OnlyMode(t *testing.T) {
	tmpDir := t.TempDir()
	only := writePrompt(t, tmpDir, "only.md")

	src, err := NewSource(Options{Only: only, PromptsDir: t.TempDir(), Rand: testRand()})
	require.NoError(t, err)
	assert.Equal(t, "custom (only.md)", src.Mode())

	for i := 1; i <= 3; i++ {
		path, kind := src.ForIteration(i)
		assert.Equal(t, only, path)
		assert.Equal(t, KindOnly, kind)
	}
}

func TestSource_FixedModes(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantFile string
		wantMode string
	}{
		{"optimize", Options{Optimize: true}, OptimizationFile, "optimization"},
		{"general", Options{General: true}, ForwardProgressFile, "general forward progress"},
		{"tasks", Options{Tasks: true}, GardeningFile, "task gardening"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.PromptsDir = t.TempDir()
			opts.Rand = testRand()

			src, err := NewSource(opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, src.Mode())

			path, kind := src.ForIteration(1)
			assert.Equal(t, KindFixed, kind)
			assert.Equal(t, tt.wantFile, filepath.Base(path))

			// Fixed mode holds for every iteration.
			again, _ := src.ForIteration(9)
			assert.Equal(t, path, again)
		})
	}
}

func TestSource_FixedModeAfterCustomPrompts(t *testing.T) {
	tmpDir := t.TempDir()
	p1 := writePrompt(t, tmpDir, "first.md")

	src, err := NewSource(Options{
		Custom:     []string{p1},
		Optimize:   true,
		PromptsDir: t.TempDir(),
		Rand:       testRand(),
	})
	require.NoError(t, err)

	path, kind := src.ForIteration(1)
	assert.Equal(t, p1, path)
	assert.Equal(t, KindCustom, kind)

	path, kind = src.ForIteration(2)
	assert.Equal(t, KindFixed, kind)
	assert.Equal(t, OptimizationFile, filepath.Base(path))
}

func TestSource_TableMode(t *testing.T) {
	tmpDir := t.TempDir()
	writePrompt(t, tmpDir, "a.md")
	writePrompt(t, tmpDir, "b.md")
	tablePath := writeTable(t, tmpDir, "1 a.md\n1 b.md\n")

	src, err := NewSource(Options{TablePath: tablePath, PromptsDir: t.TempDir(), Rand: testRand()})
	require.NoError(t, err)
	assert.Equal(t, "weighted table (table.txt)", src.Mode())
	assert.Len(t, src.Table(), 2)

	path, kind := src.ForIteration(1)
	assert.Equal(t, KindSelected, kind)
	assert.Contains(t, []string{"a.md", "b.md"}, filepath.Base(path))
}

func TestNewSource_ConfigurationErrors(t *testing.T) {
	tmpDir := t.TempDir()
	existing := writePrompt(t, tmpDir, "p.md")
	tablePath := writeTable(t, tmpDir, "1 p.md\n")

	tests := []struct {
		name string
		opts Options
	}{
		{"only with custom", Options{Only: existing, Custom: []string{existing}}},
		{"table with custom", Options{TablePath: tablePath, Custom: []string{existing}}},
		{"only and optimize", Options{Only: existing, Optimize: true}},
		{"table and tasks", Options{TablePath: tablePath, Tasks: true}},
		{"optimize and general", Options{Optimize: true, General: true}},
		{"missing only file", Options{Only: filepath.Join(tmpDir, "missing.md")}},
		{"missing table file", Options{TablePath: filepath.Join(tmpDir, "missing.txt")}},
		{"missing custom file", Options{Custom: []string{filepath.Join(tmpDir, "missing.md")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.PromptsDir = t.TempDir()
			_, err := NewSource(opts)
			assert.Error(t, err)
		})
	}
}

func TestNewSource_EmptyTableFileRejected(t *testing.T) {
	tmpDir := t.TempDir()
	tablePath := writeTable(t, tmpDir, "# nothing valid\n0 missing.md\n")

	_, err := NewSource(Options{TablePath: tablePath, PromptsDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load prompt table")
}
