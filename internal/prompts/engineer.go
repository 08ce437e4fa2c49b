// Package prompts implements MCP prompt handlers for spt-forge.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// EngineerPrompt handles the spt-engineer MCP prompt.
// It guides the AI through the requirement-to-policy workflow.
type EngineerPrompt struct{}

// NewEngineerPrompt creates an EngineerPrompt.
func NewEngineerPrompt() *EngineerPrompt {
	return &EngineerPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *EngineerPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("spt-engineer",
		mcp.WithPromptDescription(
			"Turn a natural-language access requirement into SimplePolicyTalk policy "+
				"statements. Guides you through requirement processing, resolving missing "+
				"or ambiguous elements along the way.",
		),
		mcp.WithArgument("requirement",
			mcp.ArgumentDescription("The access-control requirement in plain English"),
		),
	)
}

// Handle processes the spt-engineer prompt request.
func (p *EngineerPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	requirement := ""
	if args := req.Params.Arguments; args != nil {
		if r, ok := args["requirement"]; ok {
			requirement = r
		}
	}

	intro := "I want to turn an access-control requirement into SimplePolicyTalk policy statements."
	if requirement != "" {
		intro = fmt.Sprintf(
			"I want to turn this access-control requirement into SimplePolicyTalk policy statements:\n\n%q",
			requirement,
		)
	}

	return &mcp.GetPromptResult{
		Description: "Engineer an access policy from a requirement",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(intro + "\n\n" +
					"Please:\n" +
					"1. If I haven't given a requirement yet, ask me for one\n" +
					"2. Run `spt_process_requirement` with the requirement\n" +
					"3. If the requirement resolves, show me the generated policy and explain what it grants\n" +
					"4. If it does not resolve, walk me through the missing or ambiguous elements one by one,\n" +
					"   help me restate the requirement, and run the tool again\n" +
					"5. Use `spt_generate_checklist` if I want to inspect how the requirement decomposed\n" +
					"6. Use `spt_history` if I ask about previously processed requirements",
				),
			},
		},
	}, nil
}
