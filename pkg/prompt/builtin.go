package prompt

import (
	"fmt"
	"path/filepath"

	"github.com/ternarybob/gogo"
	"github.com/ternarybob/gogo/internal/fileutil"
)

// Built-in prompt filenames.
const (
	ForwardProgressFile = "generic_forward_progress_task.md"
	OptimizationFile    = "optimization_task.md"
	GardeningFile       = "task_gardening.md"
)

// builtins are the default weighted prompts: 50% forward progress,
// 30% optimization, 20% gardening.
var builtins = []struct {
	weight  int
	name    string
	content string
}{
	{50, ForwardProgressFile, gogo.PromptForwardProgress},
	{30, OptimizationFile, gogo.PromptOptimization},
	{20, GardeningFile, gogo.PromptGardening},
}

// BuiltinTable returns the built-in weighted table, materializing the
// embedded prompt files into promptsDir when they are missing so the
// entries satisfy the same exists-on-disk invariant as loaded tables.
func BuiltinTable(promptsDir string) ([]Entry, error) {
	entries := make([]Entry, 0, len(builtins))
	for _, b := range builtins {
		path, err := materializeBuiltin(promptsDir, b.name, b.content)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Weight: b.weight, Path: path})
	}
	return entries, nil
}

// BuiltinPath returns the on-disk path for one built-in prompt,
// materializing it when missing.
func BuiltinPath(promptsDir, name string) (string, error) {
	for _, b := range builtins {
		if b.name == name {
			return materializeBuiltin(promptsDir, b.name, b.content)
		}
	}
	return "", fmt.Errorf("unknown built-in prompt: %s", name)
}

func materializeBuiltin(promptsDir, name, content string) (string, error) {
	path := filepath.Join(promptsDir, name)
	if fileutil.IsFile(path) {
		return path, nil
	}
	if err := fileutil.WriteFile(path, []byte(content)); err != nil {
		return "", fmt.Errorf("materialize built-in prompt %s: %w", name, err)
	}
	return path, nil
}
