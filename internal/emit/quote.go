package emit

import "strings"

// shellQuote wraps s in single quotes, escaping embedded single quotes so the
// result is always a single shell word with no expansion.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
