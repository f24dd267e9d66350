// Package main provides the CLI entry point for the gogo iteration driver.
//
// gogo runs claude a fixed number of times, feeding each run a prompt file
// and teeing the stream-json output to numbered log files.
//
// Usage:
//
//	gogo 10                        Run 10 iterations with weighted built-ins
//	gogo 5 fix.md polish.md        Use custom prompts first, then built-ins
//	gogo 10 --optimize             Use the optimization prompt every time
//	gogo 10 --only custom.md       Use one prompt file for every iteration
//	gogo 10 --prompt-table t.txt   Select from a user-defined weighted table
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ternarybob/gogo/internal/api"
	"github.com/ternarybob/gogo/internal/config"
	"github.com/ternarybob/gogo/internal/logger"
	"github.com/ternarybob/gogo/pkg/driver"
	"github.com/ternarybob/gogo/pkg/prompt"
	"github.com/ternarybob/gogo/pkg/runner"
)

// version is set via -ldflags at build time
var version = "dev"

// cliArgs holds the parsed command line.
type cliArgs struct {
	iterations int
	custom     []string
	only       string
	tablePath  string
	optimize   bool
	general    bool
	tasks      bool
	happy      bool
	monitor    bool
	configPath string
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printUsage()
		os.Exit(1)
	}
	if args == nil {
		// Help or version was printed.
		return
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs parses flags and positionals in any order. Returns nil with no
// error when help or version output already handled the invocation.
func parseArgs(argv []string) (*cliArgs, error) {
	args := &cliArgs{iterations: -1}

	takeValue := func(i *int, flag string) (string, error) {
		*i++
		if *i >= len(argv) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return argv[*i], nil
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "--optimize":
			args.optimize = true
		case "--general":
			args.general = true
		case "--tasks":
			args.tasks = true
		case "--happy":
			args.happy = true
		case "--monitor":
			args.monitor = true
		case "--only":
			v, err := takeValue(&i, arg)
			if err != nil {
				return nil, err
			}
			args.only = v
		case "--prompt-table":
			v, err := takeValue(&i, arg)
			if err != nil {
				return nil, err
			}
			args.tablePath = v
		case "--config":
			v, err := takeValue(&i, arg)
			if err != nil {
				return nil, err
			}
			args.configPath = v
		case "help", "-h", "--help":
			printUsage()
			return nil, nil
		case "version", "-v", "--version":
			fmt.Printf("gogo version %s\n", version)
			return nil, nil
		default:
			if len(arg) > 1 && arg[0] == '-' {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			if args.iterations < 0 {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return nil, fmt.Errorf("iterations must be an integer, got %q", arg)
				}
				if n < 0 {
					return nil, fmt.Errorf("iterations must not be negative, got %d", n)
				}
				args.iterations = n
			} else {
				args.custom = append(args.custom, arg)
			}
		}
	}

	if args.iterations < 0 {
		return nil, fmt.Errorf("missing required ITERATIONS argument")
	}

	return args, nil
}

func printUsage() {
	fmt.Println(`gogo - Claude Code iteration driver

Usage:
  gogo [flags] ITERATIONS [PROMPT_FILE...]

Positional prompt files are used in order for the first iterations; the
remaining iterations fall back to the weighted built-in prompts.

Flags:
  --optimize            Use the optimization prompt for every iteration
  --general             Use the forward-progress prompt for every iteration
  --tasks               Use the task gardening prompt for every iteration
  --only FILE           Use one prompt file for every iteration
  --prompt-table FILE   Weighted prompt table ("WEIGHT PATH" per line)
  --happy               Invoke claude through the happy launcher
  --monitor             Serve iteration status over HTTP
  --config FILE         Config file path (default: gogo.yaml next to binary)
  --version             Show version
  --help                Show this help

Examples:
  gogo 10
  gogo 5 fix-lint.md
  gogo 20 --tasks
  gogo 10 --prompt-table prompts/table.txt`)
}

func run(args *cliArgs) error {
	configPath := args.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ResolvePaths(config.DriverDir())
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger.SetupLogger(cfg)
	defer logger.Stop()

	src, err := prompt.NewSource(prompt.Options{
		Custom:     args.custom,
		Only:       args.only,
		Optimize:   args.optimize,
		General:    args.general,
		Tasks:      args.tasks,
		TablePath:  args.tablePath,
		PromptsDir: cfg.Driver.PromptsDir,
	})
	if err != nil {
		return err
	}

	r := &runner.Runner{
		ClaudeBin:        cfg.Driver.ClaudeBin,
		HappyBin:         cfg.Driver.HappyBin,
		UseHappy:         args.happy,
		WorkDir:          cfg.Driver.WorkDir,
		SentinelFile:     cfg.Driver.SentinelFile,
		SessionTitleFile: cfg.Driver.SessionTitleFile,
	}

	d := driver.New(cfg, src, r)

	if args.monitor || cfg.Monitor.Enabled {
		api.SetVersion(version)
		server := api.NewServer(cfg, d)
		server.Start()
		defer server.Shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx, args.iterations)
}
