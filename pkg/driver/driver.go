// Package driver runs the iteration loop: pick a prompt, allocate a log
// file, invoke claude once, and stop the loop on the first failure.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ternarybob/gogo/internal/config"
	"github.com/ternarybob/gogo/internal/logger"
	"github.com/ternarybob/gogo/pkg/logfile"
	"github.com/ternarybob/gogo/pkg/prompt"
	"github.com/ternarybob/gogo/pkg/runner"
)

// Iteration records one loop pass for status reporting.
type Iteration struct {
	Number     int         `json:"number"`
	PromptFile string      `json:"prompt_file"`
	Kind       prompt.Kind `json:"kind"`
	LogFile    string      `json:"log_file"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Snapshot is a point-in-time view of driver progress.
type Snapshot struct {
	State      string      `json:"state"`
	Mode       string      `json:"mode"`
	Total      int         `json:"total"`
	Completed  int         `json:"completed"`
	Iterations []Iteration `json:"iterations"`
}

// Driver owns the iteration loop.
type Driver struct {
	cfg    *config.Config
	source *prompt.Source
	runner *runner.Runner
	out    io.Writer

	mu         sync.RWMutex
	state      string
	total      int
	completed  int
	iterations []Iteration
}

// New creates a driver over a configured prompt source and runner.
func New(cfg *config.Config, source *prompt.Source, r *runner.Runner) *Driver {
	return &Driver{
		cfg:    cfg,
		source: source,
		runner: r,
		state:  "idle",
	}
}

// SetOutput overrides the user-facing output stream (tests).
func (d *Driver) SetOutput(w io.Writer) {
	d.out = w
}

func (d *Driver) writer() io.Writer {
	if d.out != nil {
		return d.out
	}
	return os.Stdout
}

// Run executes the loop for the requested number of iterations. It stops
// at the first failing iteration and returns its error; completing zero
// iterations is a success.
func (d *Driver) Run(ctx context.Context, iterations int) error {
	log := logger.GetLogger()

	d.mu.Lock()
	d.state = "running"
	d.total = iterations
	d.completed = 0
	d.iterations = nil
	d.mu.Unlock()

	out := d.writer()
	fmt.Fprintf(out, "Starting %d iteration(s), prompt mode: %s\n", iterations, d.source.Mode())
	log.Info().Int("iterations", iterations).Str("mode", d.source.Mode()).Msg("Iteration loop starting")

	for i := 1; i <= iterations; i++ {
		if err := ctx.Err(); err != nil {
			d.finish("cancelled")
			return err
		}

		promptFile, kind := d.source.ForIteration(i)
		rec := Iteration{
			Number:     i,
			PromptFile: promptFile,
			Kind:       kind,
			StartedAt:  time.Now(),
		}

		fmt.Fprintf(out, "\n=== Iteration %d of %d ===\n", i, iterations)
		fmt.Fprintf(out, "Prompt: %s (%s)\n", filepath.Base(promptFile), kind)

		text, err := os.ReadFile(promptFile)
		if err != nil {
			rec.FinishedAt = time.Now()
			rec.Error = err.Error()
			d.record(rec)
			d.finish("failed")
			return fmt.Errorf("read prompt %s: %w", promptFile, err)
		}

		logPath, err := logfile.Allocate(d.cfg.Driver.LogsDir)
		if err != nil {
			rec.FinishedAt = time.Now()
			rec.Error = err.Error()
			d.record(rec)
			d.finish("failed")
			return fmt.Errorf("allocate log file: %w", err)
		}
		rec.LogFile = filepath.Base(logPath)
		fmt.Fprintf(out, "Log: %s\n", logPath)

		runErr := d.runner.Run(ctx, string(text), logPath)
		rec.FinishedAt = time.Now()
		if runErr != nil {
			rec.Error = runErr.Error()
			d.record(rec)
			d.finish("failed")
			fmt.Fprintf(out, "\nIteration %d failed: %v\n", i, runErr)
			log.Error().Err(runErr).Int("iteration", i).Msg("Iteration failed, stopping loop")
			return runErr
		}

		d.record(rec)
		log.Info().Int("iteration", i).Str("prompt", filepath.Base(promptFile)).Str("log", rec.LogFile).Msg("Iteration completed")
	}

	d.finish("completed")
	fmt.Fprintf(out, "\nAll %d iteration(s) completed\n", iterations)
	return nil
}

func (d *Driver) record(rec Iteration) {
	d.mu.Lock()
	d.iterations = append(d.iterations, rec)
	if rec.Error == "" {
		d.completed++
	}
	d.mu.Unlock()
}

func (d *Driver) finish(state string) {
	d.mu.Lock()
	d.state = state
	d.mu.Unlock()
}

// Status returns a copy of the current progress.
func (d *Driver) Status() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	iterations := make([]Iteration, len(d.iterations))
	copy(iterations, d.iterations)

	return Snapshot{
		State:      d.state,
		Mode:       d.source.Mode(),
		Total:      d.total,
		Completed:  d.completed,
		Iterations: iterations,
	}
}
