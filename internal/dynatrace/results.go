package dynatrace

import "encoding/json"

// Result is one environment's response within a fan-out.
type Result struct {
	Alias string
	Body  json.RawMessage
}

// Results is the alias-keyed outcome of one fan-out. Entries follow the
// registry order, not the order in which responses arrived.
type Results struct {
	entries []Result
}

// All returns every entry in order
func (r *Results) All() []Result {
	return append([]Result(nil), r.entries...)
}

// Aliases returns the aliases in order
func (r *Results) Aliases() []string {
	aliases := make([]string, len(r.entries))
	for i, e := range r.entries {
		aliases[i] = e.Alias
	}
	return aliases
}

// Get returns the body for alias
func (r *Results) Get(alias string) (json.RawMessage, bool) {
	for _, e := range r.entries {
		if e.Alias == alias {
			return e.Body, true
		}
	}
	return nil, false
}

// Len returns the number of entries
func (r *Results) Len() int {
	return len(r.entries)
}

// MarshalJSON renders the results as a JSON object keyed by alias, in order.
func (r *Results) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, e := range r.entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(e.Alias)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, e.Body...)
	}
	return append(buf, '}'), nil
}
