// Package prompt provides prompt table loading, weighted selection and
// per-iteration prompt assignment for the iteration driver.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/gogo/internal/fileutil"
	"github.com/ternarybob/gogo/internal/logger"
)

// Entry is one weighted prompt in a table.
type Entry struct {
	// Weight is the relative selection weight. Always > 0 once loaded.
	Weight int

	// Path is the prompt file path. Always exists once loaded.
	Path string
}

// TotalWeight returns the sum of all entry weights.
func TotalWeight(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Weight
	}
	return total
}

// LoadTable loads a weighted prompt table from a text file.
//
// Format, one entry per line:
//
//	<WEIGHT> <PROMPTFILE>
//
// WEIGHT must be a positive integer. PROMPTFILE is resolved relative to
// the table file's directory unless absolute. Blank lines and lines
// starting with '#' are skipped. Malformed lines are skipped with a
// warning; a table with zero valid entries is an error.
func LoadTable(tablePath string) ([]Entry, error) {
	f, err := os.Open(tablePath)
	if err != nil {
		return nil, fmt.Errorf("open prompt table: %w", err)
	}
	defer f.Close()

	log := logger.GetLogger()
	tableDir := filepath.Dir(tablePath)

	var entries []Entry
	lineNum := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			log.Warn().Str("table", tablePath).Int("line", lineNum).
				Msg("Skipping malformed table line")
			continue
		}

		weight, err := strconv.Atoi(parts[0])
		if err != nil {
			log.Warn().Str("table", tablePath).Int("line", lineNum).Str("weight", parts[0]).
				Msg("Skipping table line: invalid weight")
			continue
		}
		if weight <= 0 {
			log.Warn().Str("table", tablePath).Int("line", lineNum).
				Msg("Skipping table line: weight must be positive")
			continue
		}

		// Path is everything after the first whitespace run, so prompt
		// filenames may contain spaces.
		promptPath := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		if !filepath.IsAbs(promptPath) {
			promptPath = filepath.Join(tableDir, promptPath)
		}

		if !fileutil.IsFile(promptPath) {
			log.Warn().Str("table", tablePath).Int("line", lineNum).Str("path", promptPath).
				Msg("Skipping table line: prompt file not found")
			continue
		}

		entries = append(entries, Entry{Weight: weight, Path: promptPath})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompt table: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid prompts found in %s", tablePath)
	}

	return entries, nil
}
