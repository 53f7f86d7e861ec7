package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const environmentsResourceURI = "dynatrace://environments"

// addResources exposes the environment status as a JSON resource
func (s *Server) addResources() {
	s.mcpServer.AddResource(mcp.NewResource(environmentsResourceURI, "Dynatrace Environments",
		mcp.WithResourceDescription("Configured Dynatrace environments, their usability and configuration problems"),
		mcp.WithMIMEType("application/json"),
	), s.environmentsResourceHandler)
}

type environmentsResource struct {
	Usable       []string      `json:"usable"`
	Environments []interface{} `json:"environments"`
	ConfigErrors []string      `json:"configErrors"`
}

func (s *Server) environmentsResourceHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	payload := environmentsResource{
		Usable:       s.manager.Registry().Aliases(),
		Environments: make([]interface{}, 0),
		ConfigErrors: s.manager.ConfigErrors(),
	}
	for _, st := range s.manager.Statuses() {
		payload.Environments = append(payload.Environments, st)
	}
	if payload.ConfigErrors == nil {
		payload.ConfigErrors = []string{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal environments: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      environmentsResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
