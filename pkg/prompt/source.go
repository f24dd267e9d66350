package prompt

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/ternarybob/gogo/internal/fileutil"
)

// Kind labels where an iteration's prompt came from.
type Kind string

const (
	KindOnly     Kind = "only"
	KindCustom   Kind = "custom"
	KindFixed    Kind = "fixed"
	KindSelected Kind = "selected"
)

// Options configures a Source. Only, TablePath and the three fixed-category
// booleans are mutually exclusive; Only and TablePath also exclude
// positional Custom prompts.
type Options struct {
	// Custom are positional prompt files used in order for the first
	// iterations.
	Custom []string

	// Only, when set, is used for every iteration.
	Only string

	// Fixed built-in category modes.
	Optimize bool
	General  bool
	Tasks    bool

	// TablePath, when set, loads a weighted table for built-in selections.
	TablePath string

	// PromptsDir holds the built-in prompt files.
	PromptsDir string

	// Rand overrides the selector's random source (tests).
	Rand *rand.Rand
}

// Source assigns a prompt file to each iteration.
type Source struct {
	only     string
	fixed    string
	custom   []string
	table    []Entry
	selector *Selector
	mode     string
}

// NewSource validates the options and resolves the prompt source. All
// configuration errors surface here, before any iteration runs.
func NewSource(opts Options) (*Source, error) {
	exclusive := 0
	for _, set := range []bool{opts.Only != "", opts.Optimize, opts.General, opts.Tasks, opts.TablePath != ""} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		return nil, fmt.Errorf("--optimize, --general, --tasks, --only and --prompt-table are mutually exclusive")
	}
	if opts.Only != "" && len(opts.Custom) > 0 {
		return nil, fmt.Errorf("--only cannot be used with positional prompt arguments")
	}
	if opts.TablePath != "" && len(opts.Custom) > 0 {
		return nil, fmt.Errorf("--prompt-table cannot be used with positional prompt arguments")
	}

	for _, p := range opts.Custom {
		if !fileutil.IsFile(p) {
			return nil, fmt.Errorf("prompt file not found: %s", p)
		}
	}

	rng := opts.Rand
	var selector *Selector
	if rng != nil {
		selector = NewSelectorWithSource(rng)
	} else {
		selector = NewSelector()
	}

	s := &Source{custom: opts.Custom, selector: selector}

	switch {
	case opts.TablePath != "":
		if !fileutil.IsFile(opts.TablePath) {
			return nil, fmt.Errorf("prompt table file not found: %s", opts.TablePath)
		}
		table, err := LoadTable(opts.TablePath)
		if err != nil {
			return nil, fmt.Errorf("load prompt table: %w", err)
		}
		s.table = table
		s.mode = fmt.Sprintf("weighted table (%s)", filepath.Base(opts.TablePath))

	case opts.Only != "":
		if !fileutil.IsFile(opts.Only) {
			return nil, fmt.Errorf("prompt file not found: %s", opts.Only)
		}
		s.only = opts.Only
		s.mode = fmt.Sprintf("custom (%s)", filepath.Base(opts.Only))

	case opts.Optimize:
		path, err := BuiltinPath(opts.PromptsDir, OptimizationFile)
		if err != nil {
			return nil, err
		}
		s.fixed = path
		s.mode = "optimization"

	case opts.General:
		path, err := BuiltinPath(opts.PromptsDir, ForwardProgressFile)
		if err != nil {
			return nil, err
		}
		s.fixed = path
		s.mode = "general forward progress"

	case opts.Tasks:
		path, err := BuiltinPath(opts.PromptsDir, GardeningFile)
		if err != nil {
			return nil, err
		}
		s.fixed = path
		s.mode = "task gardening"

	default:
		table, err := BuiltinTable(opts.PromptsDir)
		if err != nil {
			return nil, err
		}
		s.table = table
		s.mode = "random weighted selection"
	}

	return s, nil
}

// ForIteration returns the prompt file for 1-indexed iteration i.
//
// Precedence: an --only file wins for every iteration; then the i-th
// positional custom prompt while any remain; then the fixed category file;
// otherwise a weighted draw over the table.
func (s *Source) ForIteration(i int) (string, Kind) {
	if s.only != "" {
		return s.only, KindOnly
	}
	if i <= len(s.custom) {
		return s.custom[i-1], KindCustom
	}
	if s.fixed != "" {
		return s.fixed, KindFixed
	}
	return s.selector.Pick(s.table), KindSelected
}

// Mode returns a human-readable description of the active prompt mode.
func (s *Source) Mode() string {
	return s.mode
}

// Table returns the loaded weighted table, nil in only/fixed modes.
func (s *Source) Table() []Entry {
	return s.table
}

// CustomCount returns how many positional custom prompts were supplied.
func (s *Source) CustomCount() int {
	return len(s.custom)
}
