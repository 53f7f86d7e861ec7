package dynatrace

import (
	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
)

// Registry is the immutable set of usable environments, in configuration
// order. It always answers the ALL_ENVIRONMENTS selector, even when empty.
type Registry struct {
	connections []*Connection
	byAlias     map[string]bool
}

func newRegistry(usable []*Connection) *Registry {
	r := &Registry{
		connections: usable,
		byAlias:     make(map[string]bool, len(usable)),
	}
	for _, c := range usable {
		r.byAlias[c.Alias()] = true
	}
	return r
}

// Aliases returns every usable alias in configuration order.
func (r *Registry) Aliases() []string {
	aliases := make([]string, 0, len(r.connections))
	for _, c := range r.connections {
		aliases = append(aliases, c.Alias())
	}
	return aliases
}

// Contains reports whether alias is usable. The reserved ALL_ENVIRONMENTS
// alias is always contained.
func (r *Registry) Contains(alias string) bool {
	return alias == environment.AllEnvironments || r.byAlias[alias]
}

// Len returns the number of usable environments.
func (r *Registry) Len() int {
	return len(r.connections)
}

// Resolve returns the aliases a selector targets, in configuration order.
// Every explicit alias must be usable. An ALL_ENVIRONMENTS token anywhere in
// the list selects every usable environment.
func (r *Registry) Resolve(sel environment.Selector) ([]string, error) {
	targets, err := r.targets(sel)
	if err != nil {
		return nil, err
	}
	aliases := make([]string, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, c := range targets {
		if !seen[c.Alias()] {
			seen[c.Alias()] = true
			aliases = append(aliases, c.Alias())
		}
	}
	return aliases, nil
}

// targets picks the selected connections, keeping registry order.
func (r *Registry) targets(sel environment.Selector) ([]*Connection, error) {
	if sel.IsAll() {
		return append([]*Connection(nil), r.connections...), nil
	}

	selected := make(map[string]bool)
	all := false
	var unknown []string
	for _, alias := range sel.Aliases() {
		if !r.Contains(alias) {
			if !contains(unknown, alias) {
				unknown = append(unknown, alias)
			}
			continue
		}
		if alias == environment.AllEnvironments {
			all = true
		}
		selected[alias] = true
	}
	if len(unknown) > 0 {
		return nil, &dterrors.SelectorError{Unknown: unknown, Available: r.Aliases()}
	}
	if all {
		return append([]*Connection(nil), r.connections...), nil
	}

	targets := make([]*Connection, 0, len(selected))
	for _, c := range r.connections {
		if selected[c.Alias()] {
			targets = append(targets, c)
		}
	}
	return targets, nil
}

func (r *Registry) lookup(alias string) *Connection {
	for _, c := range r.connections {
		if c.Alias() == alias {
			return c
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
