package environment

import "strings"

const (
	// AllEnvironments is the reserved selector meaning every usable environment.
	AllEnvironments = "ALL_ENVIRONMENTS"
	// Separator joins aliases in a selector.
	Separator = ";"
)

// Selector chooses the environments a query targets: either every usable
// environment or an explicit, ordered list of aliases.
type Selector struct {
	all     bool
	aliases []string
}

// SelectAll returns the selector for every usable environment.
func SelectAll() Selector {
	return Selector{all: true}
}

// SelectAliases returns a selector for the given aliases.
func SelectAliases(aliases ...string) Selector {
	return Selector{aliases: append([]string(nil), aliases...)}
}

// ParseSelector parses ALL_ENVIRONMENTS or a ;-separated alias list. An empty
// string selects everything. Tokens are trimmed; empty tokens are kept so that
// resolution rejects them.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" || s == AllEnvironments {
		return SelectAll()
	}
	parts := strings.Split(s, Separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Selector{aliases: parts}
}

// IsAll reports whether the selector targets every usable environment.
func (s Selector) IsAll() bool {
	return s.all
}

// Aliases returns the explicit aliases; nil for IsAll selectors.
func (s Selector) Aliases() []string {
	if s.all {
		return nil
	}
	return append([]string(nil), s.aliases...)
}

func (s Selector) String() string {
	if s.all {
		return AllEnvironments
	}
	return strings.Join(s.aliases, Separator)
}
