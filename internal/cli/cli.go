// Package cli implements the terminal surfaces of spt-forge: the
// interactive requirement prompt and the batch runner.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/HendryAvila/spt-forge/internal/engine"
)

// Processor runs the resolution loop. Satisfied by *engine.Engine.
type Processor interface {
	ProcessRequirement(ctx context.Context, requirement string) (*engine.ResolutionResult, error)
	ProcessBatch(ctx context.Context, requirements []string) []*engine.ResolutionResult
}

// ResultWriter persists results. Satisfied by *results.FileStore.
type ResultWriter interface {
	SaveResult(dir string, result *engine.ResolutionResult) (string, error)
	WriteReport(path string, results []*engine.ResolutionResult) error
}

// exampleRequirements are shown on 'help' so users see what a
// resolvable requirement looks like.
var exampleRequirements = []string{
	"Allow the IAM role 'DataAnalyst' to read all objects in the S3 bucket 'analytics-reports' between 9 AM and 5 PM EST on weekdays",
	"Allow the IAM role 'JohnDoe' in account 111122223333 to get objects and object versions from the S3 bucket 'amzn-s3-demo-bucket' only for objects tagged with environment=production",
	"Grant the IAM group 'Developers' permission to start and stop EC2 instances in the us-west-2 region",
	"Allow users with the tag Department=Finance to access CloudWatch metrics for billing",
	"Deny all users access to delete S3 objects in the 'critical-backups' bucket",
}

// App holds the CLI's dependencies.
type App struct {
	proc    Processor
	store   ResultWriter
	in      io.Reader
	out     io.Writer
	saveDir string

	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

// New creates a CLI app. saveDir is where interactive-mode results are
// written when the user chooses to save them.
func New(proc Processor, store ResultWriter, in io.Reader, out io.Writer, saveDir string) *App {
	return &App{
		proc:    proc,
		store:   store,
		in:      in,
		out:     out,
		saveDir: saveDir,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
	}
}

// Interactive runs the requirement prompt loop until the user quits or
// input ends.
func (a *App) Interactive(ctx context.Context) error {
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "🔐 spt-forge — Policy Requirements Engineer")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "Enter natural language IAM policy requirements.")
	fmt.Fprintln(a.out, "Type 'quit' or 'exit' to stop, 'help' for examples.")
	fmt.Fprintln(a.out, strings.Repeat("-", 60))

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "\n💬 Enter your policy requirement:\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out, "\n👋 Goodbye!")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Fprintln(a.out, "\n👋 Goodbye!")
			return nil
		case "help":
			a.printExamples()
			continue
		case "":
			a.red.Fprintln(a.out, "❌ Please enter a requirement or type 'help' for examples.")
			continue
		}

		fmt.Fprintf(a.out, "\n🔄 Processing: %s\n", input)
		fmt.Fprintln(a.out, strings.Repeat("-", 50))

		result, err := a.proc.ProcessRequirement(ctx, input)
		if err != nil {
			a.red.Fprintf(a.out, "❌ Error: %v\n", err)
			fmt.Fprintln(a.out, "Please try again or type 'help' for examples.")
			continue
		}

		a.printResult(result)

		fmt.Fprint(a.out, "\n💾 Save this result to file? (y/n): ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out, "\n👋 Goodbye!")
			return scanner.Err()
		}
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if choice == "y" || choice == "yes" {
			path, err := a.store.SaveResult(a.saveDir, result)
			if err != nil {
				a.red.Fprintf(a.out, "❌ Could not save result: %v\n", err)
				continue
			}
			a.green.Fprintf(a.out, "✅ Result saved to %s\n", path)
		}
	}
}

// Run processes a single requirement and prints the outcome. When
// outputPath is non-empty the result is also written there as a
// one-entry report.
func (a *App) Run(ctx context.Context, requirement, outputPath string) error {
	fmt.Fprintf(a.out, "🔄 Processing: %s\n", requirement)

	result, err := a.proc.ProcessRequirement(ctx, requirement)
	if err != nil {
		return fmt.Errorf("processing requirement: %w", err)
	}

	a.printResult(result)

	if outputPath != "" {
		if err := a.store.WriteReport(outputPath, []*engine.ResolutionResult{result}); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(a.out, "\nResults saved to %s\n", outputPath)
	}

	if result.Status != engine.OutcomeSuccess {
		return fmt.Errorf("requirement did not resolve (status %s)", result.Status)
	}
	return nil
}

// Batch processes every requirement, writes the aggregate report to
// reportPath, and prints a per-case summary.
func (a *App) Batch(ctx context.Context, requirements []string, reportPath string) error {
	results := a.proc.ProcessBatch(ctx, requirements)

	for i, result := range results {
		fmt.Fprintf(a.out, "\nProcessing: %s...\n", truncate(requirements[i], 60))
		if result.Status == engine.OutcomeSuccess {
			a.green.Fprintf(a.out, "✓ Successfully generated policy after %d attempts\n", result.Attempts)
		} else {
			a.red.Fprintln(a.out, "✗ Requirement needs clarification:")
			fmt.Fprintln(a.out, result.Feedback)
		}
	}

	if err := a.store.WriteReport(reportPath, results); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Fprintf(a.out, "\nResults saved to %s\n", reportPath)
	fmt.Fprintln(a.out, "\nSummary:")
	for i, result := range results {
		fmt.Fprintf(a.out, "\nTest Case %d:\n", i+1)
		fmt.Fprintf(a.out, "  Status: %s\n", result.Status)
		fmt.Fprintf(a.out, "  Attempts: %d\n", result.Attempts)
		if result.Status != engine.OutcomeSuccess {
			fmt.Fprintf(a.out, "  Issues: %d missing elements\n", len(result.MissingElements))
		}
	}
	return nil
}

// printResult renders one resolution outcome.
func (a *App) printResult(result *engine.ResolutionResult) {
	switch result.Status {
	case engine.OutcomeSuccess:
		a.green.Fprintf(a.out, "✅ Successfully generated policy after %d attempt(s)!\n", result.Attempts)
		fmt.Fprintln(a.out, "\n📋 Generated SPT Policy:")
		fmt.Fprintln(a.out, strings.Repeat("-", 30))
		fmt.Fprintln(a.out, strings.TrimSpace(result.Policy))
		fmt.Fprintln(a.out, strings.Repeat("-", 30))
	case engine.OutcomeError:
		a.red.Fprintf(a.out, "❌ Error: %s\n", result.Error)
	default:
		a.red.Fprintf(a.out, "❌ Requirement needs clarification (attempted %d times):\n", result.Attempts)
		fmt.Fprintln(a.out, "\n📝 Feedback:")
		fmt.Fprintln(a.out, result.Feedback)
		if len(result.MissingElements) > 0 {
			a.yellow.Fprintf(a.out, "\n🔍 Missing %d key elements\n", len(result.MissingElements))
		}
	}
}

// printExamples shows sample requirements.
func (a *App) printExamples() {
	fmt.Fprintln(a.out, "\n📚 Example Policy Requirements:")
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	for i, example := range exampleRequirements {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, example)
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
