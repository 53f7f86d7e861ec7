package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
)

const aliasesParam = "environment_aliases"

// toolOrder is the order tools are listed in
var toolOrder = []string{
	"list_environments",
	"get_cluster_version",
	"list_problems",
	"list_vulnerabilities",
	"find_entities",
	"list_metrics",
	"query_metrics",
	"list_events",
	"query_logs",
	"list_slos",
}

// queryTool describes a tool that fans one GET out to the selected environments
type queryTool struct {
	name        string
	description string
	path        string
	title       string
	params      []queryParam
	render      renderer
}

type paramKind int

const (
	stringParam paramKind = iota
	numberParam
	boolParam
)

type queryParam struct {
	name        string
	kind        paramKind
	required    bool
	description string
}

var queryTools = []queryTool{
	{
		name:        "get_cluster_version",
		description: "Get the Dynatrace cluster version of the selected environments",
		path:        "/api/v1/config/clusterversion",
		title:       "Cluster versions",
		render:      renderClusterVersion,
	},
	{
		name:        "list_problems",
		description: "List problems detected by Davis AI in the selected environments",
		path:        "/api/v2/problems",
		title:       "Problems",
		params: []queryParam{
			{name: "problemSelector", description: `Problem selector, e.g. status("open")`},
			{name: "from", description: "Start of the timeframe, e.g. now-2h (default: now-2h)"},
			{name: "pageSize", kind: numberParam, description: "Maximum number of problems per environment"},
		},
		render: renderProblems,
	},
	{
		name:        "list_vulnerabilities",
		description: "List security problems (vulnerabilities) in the selected environments",
		path:        "/api/v2/securityProblems",
		title:       "Vulnerabilities",
		params: []queryParam{
			{name: "securityProblemSelector", description: `Security problem selector, e.g. riskLevel("CRITICAL")`},
			{name: "pageSize", kind: numberParam, description: "Maximum number of vulnerabilities per environment"},
		},
		render: renderVulnerabilities,
	},
	{
		name:        "find_entities",
		description: "Find monitored entities matching an entity selector",
		path:        "/api/v2/entities",
		title:       "Entities",
		params: []queryParam{
			{name: "entitySelector", required: true, description: `Entity selector, e.g. type("SERVICE"),entityName.contains("checkout")`},
			{name: "from", description: "Start of the timeframe, e.g. now-72h"},
			{name: "pageSize", kind: numberParam, description: "Maximum number of entities per environment"},
		},
		render: renderEntities,
	},
	{
		name:        "list_metrics",
		description: "List available metric descriptors",
		path:        "/api/v2/metrics",
		title:       "Metrics",
		params: []queryParam{
			{name: "text", description: "Only metrics whose id or name contains this text"},
			{name: "pageSize", kind: numberParam, description: "Maximum number of metrics per environment"},
		},
		render: renderMetricDescriptors,
	},
	{
		name:        "query_metrics",
		description: "Query metric data points",
		path:        "/api/v2/metrics/query",
		title:       "Metric data",
		params: []queryParam{
			{name: "metricSelector", required: true, description: "Metric selector, e.g. builtin:host.cpu.usage:avg"},
			{name: "from", description: "Start of the timeframe, e.g. now-1h"},
			{name: "to", description: "End of the timeframe, e.g. now"},
			{name: "resolution", description: "Resolution, e.g. 5m"},
		},
		render: renderMetricQuery,
	},
	{
		name:        "list_events",
		description: "List events in the selected environments",
		path:        "/api/v2/events",
		title:       "Events",
		params: []queryParam{
			{name: "eventSelector", description: `Event selector, e.g. eventType("CUSTOM_DEPLOYMENT")`},
			{name: "from", description: "Start of the timeframe, e.g. now-24h"},
			{name: "pageSize", kind: numberParam, description: "Maximum number of events per environment"},
		},
		render: renderEvents,
	},
	{
		name:        "query_logs",
		description: "Search log records",
		path:        "/api/v2/logs/search",
		title:       "Log records",
		params: []queryParam{
			{name: "query", description: `Log query, e.g. status="ERROR"`},
			{name: "from", description: "Start of the timeframe, e.g. now-30m"},
			{name: "to", description: "End of the timeframe, e.g. now"},
			{name: "limit", kind: numberParam, description: "Maximum number of records per environment"},
		},
		render: renderLogs,
	},
	{
		name:        "list_slos",
		description: "List service-level objectives",
		path:        "/api/v2/slo",
		title:       "SLOs",
		params: []queryParam{
			{name: "sloSelector", description: `SLO selector, e.g. name("checkout availability")`},
			{name: "evaluate", kind: boolParam, description: "Evaluate the SLOs for the timeframe"},
		},
		render: renderSLOs,
	},
}

// defaults applied when the caller does not set a parameter
var paramDefaults = map[string]map[string]string{
	"list_problems": {"from": "now-2h"},
}

func (s *Server) addTools() {
	s.addTool(mcp.NewTool("list_environments",
		mcp.WithDescription("Show every configured Dynatrace environment, whether it is usable, and configuration problems"),
	), s.listEnvironmentsHandler)

	for _, qt := range queryTools {
		s.addTool(qt.definition(), s.queryHandler(qt))
	}
}

func (qt queryTool) definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(qt.description),
		mcp.WithString(aliasesParam,
			mcp.Description(fmt.Sprintf("Environment aliases separated by %q, or %s (default)",
				environment.Separator, environment.AllEnvironments)),
			mcp.DefaultString(environment.AllEnvironments),
		),
	}
	for _, p := range qt.params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.description)}
		if p.required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.kind {
		case numberParam:
			opts = append(opts, mcp.WithNumber(p.name, propOpts...))
		case boolParam:
			opts = append(opts, mcp.WithBoolean(p.name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.name, propOpts...))
		}
	}
	return mcp.NewTool(qt.name, opts...)
}

// queryParams turns tool arguments into API query parameters
func (qt queryTool) queryParams(req mcp.CallToolRequest) (map[string]string, error) {
	params := make(map[string]string)
	for k, v := range paramDefaults[qt.name] {
		params[k] = v
	}

	for _, p := range qt.params {
		switch p.kind {
		case numberParam:
			if n := req.GetInt(p.name, 0); n > 0 {
				params[p.name] = strconv.Itoa(n)
			}
		case boolParam:
			if req.GetBool(p.name, false) {
				params[p.name] = "true"
			}
		default:
			if p.required {
				v, err := req.RequireString(p.name)
				if err != nil || v == "" {
					return nil, fmt.Errorf("%s parameter is required", p.name)
				}
				params[p.name] = v
				continue
			}
			if v := req.GetString(p.name, ""); v != "" {
				params[p.name] = v
			}
		}
	}
	return params, nil
}

func (s *Server) queryHandler(qt queryTool) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString(aliasesParam, environment.AllEnvironments)
		if _, err := s.manager.Resolve(raw); err != nil {
			return mcp.NewToolResultError(dterrors.FormatSimple(err)), nil
		}

		params, err := qt.queryParams(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results, err := s.manager.FanOut(ctx, qt.path, params, environment.ParseSelector(raw))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", qt.name, dterrors.FormatSimple(err))), nil
		}

		if results.Len() == 0 {
			return mcp.NewToolResultText("No usable Dynatrace environments. Run list_environments for details."), nil
		}

		text, err := s.renderResults(qt.title, results, qt.render)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
