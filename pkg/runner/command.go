package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds the happy help-text capability probe. The child
// claude process itself has no timeout.
const probeTimeout = 5 * time.Second

// CapabilityProber reports whether the happy launcher supports naming the
// session via a flag. Behind an interface so tests can stub the probe.
type CapabilityProber interface {
	SupportsNaming(ctx context.Context) bool
}

// helpProber probes by running "<launcher> -h" and pattern-matching the
// help text. Any failure (missing binary, timeout, non-zero exit) counts
// as capability absent, never as an error.
type helpProber struct {
	bin string
}

// NewHelpProber returns the default prober for the given launcher binary.
func NewHelpProber(bin string) CapabilityProber {
	return helpProber{bin: bin}
}

func (p helpProber) SupportsNaming(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, p.bin, "-h").Output()
	if err != nil {
		return false
	}

	help := string(out)
	return strings.Contains(help, "--name") || strings.Contains(help, "--uname")
}

// claudeArgs are the fixed flags for every claude invocation: skip
// interactive permission prompts, emit verbose stream-json, continue the
// existing conversation, prompt as an argument.
func claudeArgs(prompt string) []string {
	return []string{
		"--dangerously-skip-permissions",
		"--verbose",
		"--output-format", "stream-json",
		"-c",
		"-p", prompt,
	}
}

// buildCommand returns the executable and argument list for one run.
// Three shapes: direct claude, happy with a native --name flag, or happy
// without it, where the title request is prepended to the prompt text as
// a best-effort convention.
func (r *Runner) buildCommand(ctx context.Context, prompt, title string) (string, []string) {
	if !r.UseHappy {
		return r.ClaudeBin, claudeArgs(prompt)
	}

	if r.prober().SupportsNaming(ctx) {
		args := append([]string{"--name", title, r.ClaudeBin}, claudeArgs(prompt)...)
		return r.HappyBin, args
	}

	named := fmt.Sprintf("Tell happy to change the title to %s\n\n%s", title, prompt)
	args := append([]string{r.ClaudeBin}, claudeArgs(named)...)
	return r.HappyBin, args
}
