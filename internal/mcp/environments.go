package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// EnvironmentReport renders the operator-facing status of every configured
// environment followed by the configuration diagnostics.
func (s *Server) EnvironmentReport() string {
	statuses := s.manager.Statuses()
	configErrors := s.manager.ConfigErrors()

	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d configured environment(s) usable\n", s.manager.Usable(), len(statuses))

	for _, st := range statuses {
		mark := "✅"
		if !st.Valid {
			mark = "❌"
		}
		fmt.Fprintf(&b, "\n%s %s\n", mark, st.Alias)
		fmt.Fprintf(&b, "  API: %s\n", st.APIURL)
		fmt.Fprintf(&b, "  Dashboard: %s\n", st.DashboardURL)
		if st.Proxy != "" {
			fmt.Fprintf(&b, "  Proxy: %s\n", st.Proxy)
		}
		if st.ValidationError != "" {
			fmt.Fprintf(&b, "  Problem: %s\n", st.ValidationError)
		}
	}

	if len(configErrors) > 0 {
		b.WriteString("\nConfiguration problems:\n")
		for _, e := range configErrors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}

func (s *Server) listEnvironmentsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.EnvironmentReport()), nil
}
