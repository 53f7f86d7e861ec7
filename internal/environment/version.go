package environment

import "strings"

// IsCompatible compares dotted numeric versions component by component.
// Missing trailing components count as zero; each component is read up to its
// first non-digit, so "20240101-123456" compares as 20240101. Equal versions
// are compatible.
func IsCompatible(version, minimum string) bool {
	current := strings.Split(strings.TrimSpace(version), ".")
	required := strings.Split(strings.TrimSpace(minimum), ".")

	n := max(len(current), len(required))
	for i := 0; i < n; i++ {
		c, r := component(current, i), component(required, i)
		if c > r {
			return true
		}
		if c < r {
			return false
		}
	}
	return true
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n := 0
	for _, ch := range parts[i] {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
