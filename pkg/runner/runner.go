// Package runner invokes the claude CLI (optionally through the happy
// launcher) for a single iteration, teeing its stream-json stdout to a
// log file while printing the embedded human-readable text.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ternarybob/gogo/internal/fileutil"
	"github.com/ternarybob/gogo/internal/logger"
)

// Runner executes one claude run per call.
type Runner struct {
	// ClaudeBin is the claude executable name or path.
	ClaudeBin string

	// HappyBin is the happy launcher executable; used when UseHappy is set.
	HappyBin string

	// UseHappy invokes claude through the happy launcher.
	UseHappy bool

	// WorkDir is the child process working directory. The sentinel error
	// file is looked for here.
	WorkDir string

	// SentinelFile is the error filename checked after each run.
	SentinelFile string

	// SessionTitleFile is read for the happy session title.
	SessionTitleFile string

	// Prober overrides the happy capability probe (tests).
	Prober CapabilityProber

	// Out is the user-facing output stream. Defaults to os.Stdout.
	Out io.Writer
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) prober() CapabilityProber {
	if r.Prober != nil {
		return r.Prober
	}
	return NewHelpProber(r.HappyBin)
}

// Run executes one iteration with the given prompt text, appending the
// child's raw stdout lines to logPath. Every failure mode (spawn error,
// non-zero exit, sentinel file present) is returned as an error, never
// propagated as a crash.
func (r *Runner) Run(ctx context.Context, prompt, logPath string) error {
	log := logger.GetLogger()

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	title := ""
	if r.UseHappy {
		title = fileutil.FirstLine(r.SessionTitleFile)
	}

	bin, args := r.buildCommand(ctx, prompt, title)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", bin, err)
	}

	stopWatch := watchSentinel(r.WorkDir, r.SentinelFile)
	defer stopWatch()

	// Lines are read without a length cap. Tool results can exceed any
	// fixed buffer, and abandoning the pipe mid-stream would both lose
	// log lines and leave the child blocked on a full pipe.
	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			// Raw durable log first; os.File writes are unbuffered, so
			// each line is on disk before the display projection runs.
			if _, err := logFile.WriteString(line); err != nil {
				log.Warn().Err(err).Str("log", logPath).Msg("Failed to append to log file")
			}

			renderLine(r.out(), []byte(strings.TrimSuffix(line, "\n")))
		}
		if readErr != nil {
			if readErr != io.EOF {
				log.Warn().Err(readErr).Msg("Error reading claude output stream")
			}
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("claude exited with error: %s", msg)
	}

	if content, found := CheckSentinel(r.WorkDir, r.SentinelFile); found {
		fmt.Fprintf(r.out(), "\nError detected in %s:\n%s\n", r.SentinelFile, content)
		return fmt.Errorf("sentinel error file %s present after run", r.SentinelFile)
	}

	return nil
}
