package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
)

// addPrompts registers guided workflows built on the tools
func (s *Server) addPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt("triage_problems",
		mcp.WithPromptDescription("Triage open problems across Dynatrace environments"),
		mcp.WithArgument(aliasesParam, mcp.ArgumentDescription("Environment aliases separated by ';' (default: all)")),
		mcp.WithArgument("timeframe", mcp.ArgumentDescription("How far back to look, e.g. now-6h (default: now-2h)")),
	), s.triageProblemsHandler)
}

func (s *Server) triageProblemsHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	aliases := environment.AllEnvironments
	timeframe := "now-2h"

	if args := request.Params.Arguments; args != nil {
		if a := strings.TrimSpace(args[aliasesParam]); a != "" {
			aliases = a
		}
		if tf := strings.TrimSpace(args["timeframe"]); tf != "" {
			timeframe = tf
		}
	}

	prompt := `You are an SRE triaging production issues reported by Dynatrace.

## Scope
- Environments: ` + aliases + `
- Timeframe: ` + timeframe + ` until now

## Workflow

1. Call list_environments and note any environment that is not usable.
2. Call list_problems with environment_aliases="` + aliases + `", from="` + timeframe + `" and problemSelector=status("open").
3. For each problem, use find_entities on the affected entities and query_metrics for their key metrics.
4. Check list_events for deployments or configuration changes shortly before each problem started.
5. Use query_logs to look for errors on the affected services.

Summarize per environment: the problem, the likely root cause, and the dashboard link.`

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(prompt)),
	}
	return mcp.NewGetPromptResult("Problem triage workflow", messages), nil
}
