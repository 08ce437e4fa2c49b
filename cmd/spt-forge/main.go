// spt-forge: Natural Language to IAM Policy Engine
//
// Converts natural language AWS IAM policy requirements into SimplePolicyTalk
// (SPT) policies through an LLM-driven checklist pipeline. Runs as an MCP
// server for AI coding tools, or standalone from the terminal.
//
// Usage:
//
//	spt-forge serve          # Start MCP server (stdio transport)
//	spt-forge interactive    # Interactive requirement prompt
//	spt-forge run            # Batch-process requirements
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/spt-forge/internal/cli"
	"github.com/HendryAvila/spt-forge/internal/config"
	"github.com/HendryAvila/spt-forge/internal/engine"
	"github.com/HendryAvila/spt-forge/internal/history"
	"github.com/HendryAvila/spt-forge/internal/llm"
	"github.com/HendryAvila/spt-forge/internal/results"
	sptserver "github.com/HendryAvila/spt-forge/internal/server"
)

// defaultRequirement is processed by "run" when no input file is given.
// It is the AWS documentation example requirement.
const defaultRequirement = "Allow the IAM role 'JohnDoe' in account 111122223333 to get objects and object versions from the S3 bucket 'amzn-s3-demo-bucket' only for objects tagged with environment=production"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "interactive":
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "run":
		if err := runBatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("spt-forge v%s\n", sptserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	s, cleanup, err := sptserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func runInteractive() error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	return app.Interactive(signalContext())
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	inputFile := fs.String("f", "", "file with one requirement per line")
	outputFile := fs.String("o", results.ReportFile, "report output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := signalContext()

	// A positional argument is a single requirement.
	if *inputFile == "" && len(fs.Args()) > 0 {
		return app.Run(ctx, strings.Join(fs.Args(), " "), *outputFile)
	}

	requirements := []string{defaultRequirement}
	if *inputFile != "" {
		loaded, err := readRequirements(*inputFile)
		if err != nil {
			return err
		}
		requirements = loaded
	}
	return app.Batch(ctx, requirements, *outputFile)
}

// newApp wires the resolution engine for terminal modes. The run history
// database is best-effort, matching the MCP server.
func newApp() (*cli.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	client := llm.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.ReasoningEffort)

	cleanup := func() {}
	var opts []engine.Option
	runs, err := history.New(history.Config{DataDir: cfg.DataDir})
	if err != nil {
		log.Printf("WARNING: run history unavailable: %v", err)
	} else {
		opts = append(opts, engine.WithRecorder(runs))
		cleanup = func() { runs.Close() }
	}

	eng, err := engine.New(cfg, client, opts...)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating engine: %w", err)
	}

	return cli.New(eng, results.NewFileStore(), os.Stdin, os.Stdout, "."), cleanup, nil
}

// readRequirements loads one requirement per line, skipping blanks and
// lines starting with '#'.
func readRequirements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirements file: %w", err)
	}

	var requirements []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		requirements = append(requirements, line)
	}
	if len(requirements) == 0 {
		return nil, fmt.Errorf("no requirements found in %s", path)
	}
	return requirements, nil
}

// signalContext returns a context cancelled on interrupt.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `spt-forge v%s — Natural Language to IAM Policy Engine

Usage:
  spt-forge serve                Start the MCP server (stdio transport)
  spt-forge interactive          Interactive requirement prompt
  spt-forge run [requirement]    Process one requirement (built-in default)
  spt-forge run -f reqs.txt      Batch-process a file (one requirement per line)
  spt-forge run -o report.json   Choose the report output path

Environment:
  OPENAI_API_KEY           LLM API key (required)
  SPT_FORGE_BASE_URL       API base URL
  SPT_FORGE_MODEL          Model name
  SPT_FORGE_MAX_ATTEMPTS   Resolution loop attempt limit

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "spt-forge": {
        "command": "spt-forge",
        "args": ["serve"],
        "env": { "OPENAI_API_KEY": "sk-..." }
      }
    }
  }
`, sptserver.Version)
}
