// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts that depend on abstractions.
// No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/spt-forge/internal/config"
	"github.com/HendryAvila/spt-forge/internal/engine"
	"github.com/HendryAvila/spt-forge/internal/history"
	"github.com/HendryAvila/spt-forge/internal/llm"
	"github.com/HendryAvila/spt-forge/internal/prompts"
	"github.com/HendryAvila/spt-forge/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and prompts
// registered. This is the single place where all dependencies are
// resolved.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if history init failed.
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading configuration: %w", err)
	}

	// --- Create shared dependencies ---

	client := llm.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.ReasoningEffort)

	// History is an independent subsystem: if it fails to initialize,
	// requirement processing continues working. We log a warning and
	// the spt_history tool reports history as unavailable.
	cleanup := noop
	recorder, histErr := history.New(history.Config{DataDir: cfg.DataDir})
	if histErr != nil {
		log.Printf("WARNING: run history disabled: %v", histErr)
		recorder = nil
	} else {
		cleanup = func() {
			if err := recorder.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	var opts []engine.Option
	if recorder != nil {
		opts = append(opts, engine.WithRecorder(recorder))
	}
	eng, err := engine.New(cfg, client, opts...)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating resolution engine: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"spt-forge",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	processTool := tools.NewProcessTool(eng)
	s.AddTool(processTool.Definition(), processTool.Handle)

	generateTool := tools.NewGenerateTool(eng)
	s.AddTool(generateTool.Definition(), generateTool.Handle)

	var runReader tools.RunReader
	if recorder != nil {
		runReader = recorder
	}
	historyTool := tools.NewHistoryTool(runReader)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	// --- Register prompts ---

	engineerPrompt := prompts.NewEngineerPrompt()
	s.AddPrompt(engineerPrompt.Definition(), engineerPrompt.Handle)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when history
// is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use spt-forge effectively.
func serverInstructions() string {
	return `You have access to spt-forge, an MCP server that turns natural-language
AWS access-control requirements into SimplePolicyTalk (SPT) policy statements.

## WHEN TO ACTIVATE spt-forge

Use spt-forge when the user:
- Describes who should (or should not) be able to access something in AWS
- Asks to write, review, or tighten an IAM-style access policy
- Says things like "allow developers to...", "deny access to...", "only admins should..."

You do NOT need spt-forge for questions about AWS services themselves,
billing, or infrastructure that has no access-control component.

## How It Works

spt-forge converts requirements in three steps:
1. The requirement is parsed into a structured checklist with five elements
   per rule: effect (allow/deny), principal (who), actions (what operations),
   resources (on what), and conditions (under which circumstances).
2. The checklist is analyzed for completeness and ambiguity. A requirement
   resolves only when every required element is present and unambiguous.
3. Resolved requirements become SPT policy statements of the form:
   allow <principal> to <action> on <resource> [where <condition>];

The resolution loop retries a bounded number of times, feeding the analysis
back into the requirement. When the loop exhausts its attempts, the response
tells you exactly what was missing or ambiguous.

## Workflow

1. Collect the requirement from the user in plain English. Specific beats
   vague: "Allow the Developers role to read objects in the logs bucket"
   resolves; "give devs some access" will not.
2. Call spt_process_requirement with the requirement.
3. If it resolves, present the policy and explain in one or two sentences
   what it grants.
4. If it does not resolve, the response lists missing and ambiguous elements.
   Ask the user targeted questions for each one, then restate the requirement
   with their answers folded in and call spt_process_requirement again.
   Do NOT invent principals, resource names, or conditions the user never gave.
5. Use spt_generate_checklist when the user wants to see how a requirement
   decomposes without generating a policy.
6. Use spt_history to recall previously processed requirements.

## Important Rules

- NEVER fabricate account IDs, role names, bucket names, or ARNs
- Prefer narrow grants: specific actions and resources over wildcards
- A DENY requirement is valid — effect is part of the requirement, not a default
- If the user's requirement mixes several grants, process them together;
  the checklist supports multiple rules per requirement`
}
