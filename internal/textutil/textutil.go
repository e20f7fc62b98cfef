// Package textutil provides small text helpers for terminal display.
package textutil

// Truncate shortens value to at most max runes, ending with an ellipsis
// when anything was cut. A max below 4 returns the bare ellipsis for
// oversized input.
func Truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max < 4 {
		return "..."
	}
	return string(runes[:max-3]) + "..."
}

// Ternary returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
