// Package logfile manages the per-run jsonl log files and the "latest"
// symlink inside the logs directory.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/gogo/internal/fileutil"
)

const (
	// pattern is the per-run log filename, numbered from 01.
	pattern = "claude_workstream%02d.jsonl"

	// LatestName is the fixed-name alias repointed at the newest log.
	LatestName = "claude_workstream_latest.jsonl"
)

// Name returns the log filename for a given number.
func Name(num int) string {
	return fmt.Sprintf(pattern, num)
}

// NextNumber scans the logs directory from 1 upward and returns the
// lowest number whose log file does not exist. Gaps left by deleted logs
// are reused.
func NextNumber(logsDir string) int {
	num := 1
	for fileutil.Exists(filepath.Join(logsDir, Name(num))) {
		num++
	}
	return num
}

// Allocate picks the next free log file in logsDir, creating the
// directory if needed, and repoints the latest symlink at it. The file
// itself is not created; the runner opens it in append mode.
func Allocate(logsDir string) (string, error) {
	if err := fileutil.EnsureDir(logsDir); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	name := Name(NextNumber(logsDir))
	path := filepath.Join(logsDir, name)

	if err := UpdateLatest(logsDir, name); err != nil {
		return "", err
	}

	return path, nil
}

// UpdateLatest removes any existing latest alias (symlink or plain file)
// and recreates it pointing at name. The link target is the bare filename
// so the alias resolves relative to the logs directory.
func UpdateLatest(logsDir, name string) error {
	latest := filepath.Join(logsDir, LatestName)

	if _, err := os.Lstat(latest); err == nil {
		if err := os.Remove(latest); err != nil {
			return fmt.Errorf("remove latest symlink: %w", err)
		}
	}

	if err := os.Symlink(name, latest); err != nil {
		return fmt.Errorf("create latest symlink: %w", err)
	}

	return nil
}
