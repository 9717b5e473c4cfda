// Package parse contains the small text grammars used by admin commands:
// compact duration tokens and key="value" argument lists.
package parse

import (
	"regexp"
	"strconv"
)

var (
	durationPattern = regexp.MustCompile(`^(\d+)([hdm])$`)
	argPattern      = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// Duration parses a compact duration token ("1h", "7d", "30m") into seconds.
// Anything that is not digits followed by exactly one of h/d/m yields 0,
// which callers must treat as an invalid duration.
func Duration(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	switch m[2] {
	case "h":
		return n * 3600
	case "d":
		return n * 86400
	case "m":
		return n * 60
	}
	return 0
}

// Args extracts key="value" pairs from free text. Tokens that don't match the
// shape are ignored, which allows prose mixed with structured fields. When a
// key repeats, the last occurrence wins.
func Args(text string) map[string]string {
	args := make(map[string]string)
	for _, m := range argPattern.FindAllStringSubmatch(text, -1) {
		args[m[1]] = m[2]
	}
	return args
}
