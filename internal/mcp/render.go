package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kubiyabot/dynatrace-mcp/internal/dynatrace"
)

// renderer writes one environment's response. dashboard is the environment's
// dashboard base URL and may be empty.
type renderer func(b *strings.Builder, dashboard string, body json.RawMessage) error

// renderResults groups the output per environment, in result order.
func (s *Server) renderResults(title string, results *dynatrace.Results, render renderer) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d environment(s))\n", title, results.Len())

	for _, r := range results.All() {
		dashboard := s.manager.DashboardURLFor(r.Alias)
		fmt.Fprintf(&b, "\n## %s", r.Alias)
		if dashboard != "" {
			fmt.Fprintf(&b, " (%s)", dashboard)
		}
		b.WriteString("\n")
		if err := render(&b, dashboard, r.Body); err != nil {
			return "", fmt.Errorf("environment %q: %w", r.Alias, err)
		}
	}
	return b.String(), nil
}

func decode[T any](body json.RawMessage) (T, error) {
	var v T
	if len(body) == 0 || string(body) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("unexpected response shape: %w", err)
	}
	return v, nil
}

func link(dashboard, path string) string {
	if dashboard == "" {
		return ""
	}
	return strings.TrimRight(dashboard, "/") + path
}

func orUnknown(v string, ok bool) string {
	if !ok || v == "" {
		return "unknown"
	}
	return v
}

func formatMillis(ms int64, ok bool) string {
	if !ok {
		return "unknown time"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func writeCount(b *strings.Builder, noun string, shown int, total int, ok bool) {
	if ok {
		fmt.Fprintf(b, "%d %s (showing %d)\n", total, noun, shown)
		return
	}
	fmt.Fprintf(b, "%d %s\n", shown, noun)
}

func renderClusterVersion(b *strings.Builder, _ string, body json.RawMessage) error {
	v, err := decode[clusterVersion](body)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "Cluster version: %s\n", orUnknown(v.GetVersion()))
	return nil
}

func renderProblems(b *strings.Builder, dashboard string, body json.RawMessage) error {
	list, err := decode[problemList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "problem(s)", len(list.Problems), total, ok)

	for _, p := range list.Problems {
		fmt.Fprintf(b, "- [%s] %s\n", orUnknown(p.GetDisplayID()), orUnknown(p.GetTitle()))
		fmt.Fprintf(b, "  status=%s severity=%s impact=%s started=%s\n",
			orUnknown(p.GetStatus()), orUnknown(p.GetSeverityLevel()), orUnknown(p.GetImpactLevel()),
			formatMillis(p.GetStartTime()))
		if id, ok := p.GetProblemID(); ok {
			if l := link(dashboard, "/#problems/problemdetails;pid="+id); l != "" {
				fmt.Fprintf(b, "  %s\n", l)
			}
		}
	}
	return nil
}

func renderVulnerabilities(b *strings.Builder, dashboard string, body json.RawMessage) error {
	list, err := decode[securityProblemList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "vulnerability(ies)", len(list.SecurityProblems), total, ok)

	for _, sp := range list.SecurityProblems {
		risk := orUnknown(sp.GetRiskLevel())
		if score, ok := sp.GetRiskScore(); ok {
			risk = fmt.Sprintf("%s (%.1f)", risk, score)
		}
		fmt.Fprintf(b, "- [%s] %s\n", orUnknown(sp.GetDisplayID()), orUnknown(sp.GetTitle()))
		fmt.Fprintf(b, "  status=%s risk=%s\n", orUnknown(sp.GetStatus()), risk)
		if id, ok := sp.GetSecurityProblemID(); ok {
			if l := link(dashboard, "/ui/security/vulnerabilities/"+url.PathEscape(id)); l != "" {
				fmt.Fprintf(b, "  %s\n", l)
			}
		}
	}
	return nil
}

func renderEntities(b *strings.Builder, dashboard string, body json.RawMessage) error {
	list, err := decode[entityList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "entity(ies)", len(list.Entities), total, ok)

	for _, e := range list.Entities {
		id, hasID := e.GetEntityID()
		fmt.Fprintf(b, "- %s (%s, %s)\n", orUnknown(e.GetDisplayName()), orUnknown(id, hasID), orUnknown(e.GetType()))
		if hasID {
			if l := link(dashboard, "/#newentity;id="+id); l != "" {
				fmt.Fprintf(b, "  %s\n", l)
			}
		}
	}
	return nil
}

func renderMetricDescriptors(b *strings.Builder, _ string, body json.RawMessage) error {
	list, err := decode[metricDescriptorList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "metric(s)", len(list.Metrics), total, ok)

	for _, m := range list.Metrics {
		line := "- " + orUnknown(m.GetMetricID())
		if name, ok := m.GetDisplayName(); ok && name != "" {
			line += ": " + name
		}
		if unit, ok := m.GetUnit(); ok && unit != "" {
			line += " [" + unit + "]"
		}
		b.WriteString(line + "\n")
	}
	return nil
}

func renderMetricQuery(b *strings.Builder, _ string, body json.RawMessage) error {
	res, err := decode[metricQueryResult](body)
	if err != nil {
		return err
	}
	if r, ok := res.GetResolution(); ok {
		fmt.Fprintf(b, "Resolution: %s\n", r)
	}
	if len(res.Result) == 0 {
		b.WriteString("No data\n")
		return nil
	}

	for _, series := range res.Result {
		fmt.Fprintf(b, "- %s: %d series\n", orUnknown(series.GetMetricID()), len(series.Data))
		for _, d := range series.Data {
			dims := strings.Join(d.Dimensions, ", ")
			if dims == "" {
				dims = "(no dimensions)"
			}
			if v, ok := d.GetLastValue(); ok {
				fmt.Fprintf(b, "  %s: last=%g over %d point(s)\n", dims, v, len(d.Values))
			} else {
				fmt.Fprintf(b, "  %s: no values\n", dims)
			}
		}
	}
	return nil
}

func renderEvents(b *strings.Builder, _ string, body json.RawMessage) error {
	list, err := decode[eventList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "event(s)", len(list.Events), total, ok)

	for _, e := range list.Events {
		fmt.Fprintf(b, "- %s %s: %s (%s)\n",
			formatMillis(e.GetStartTime()), orUnknown(e.GetEventType()), orUnknown(e.GetTitle()), orUnknown(e.GetStatus()))
	}
	return nil
}

func renderLogs(b *strings.Builder, _ string, body json.RawMessage) error {
	res, err := decode[logSearchResult](body)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "%d log record(s)\n", len(res.Results))

	for _, r := range res.Results {
		fmt.Fprintf(b, "- %s [%s] %s\n", formatMillis(r.GetTimestamp()), orUnknown(r.GetStatus()), orUnknown(r.GetContent()))
	}
	if key, ok := res.GetNextSliceKey(); ok && key != "" {
		b.WriteString("More records are available; narrow the time range or query.\n")
	}
	return nil
}

func renderSLOs(b *strings.Builder, dashboard string, body json.RawMessage) error {
	list, err := decode[sloList](body)
	if err != nil {
		return err
	}
	total, ok := list.GetTotalCount()
	writeCount(b, "SLO(s)", len(list.SLOs), total, ok)

	for _, s := range list.SLOs {
		fmt.Fprintf(b, "- %s: status=%s", orUnknown(s.GetName()), orUnknown(s.GetStatus()))
		if v, ok := s.GetEvaluatedPercentage(); ok {
			fmt.Fprintf(b, " evaluated=%.2f%%", v)
		}
		if v, ok := s.GetTarget(); ok {
			fmt.Fprintf(b, " target=%.2f%%", v)
		}
		if v, ok := s.GetErrorBudget(); ok {
			fmt.Fprintf(b, " errorBudget=%.2f", v)
		}
		b.WriteString("\n")
		if id, ok := s.GetID(); ok {
			if l := link(dashboard, "/ui/slo?id="+url.QueryEscape(id)); l != "" {
				fmt.Fprintf(b, "  %s\n", l)
			}
		}
	}
	return nil
}
