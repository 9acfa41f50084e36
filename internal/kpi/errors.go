package kpi

import (
	"fmt"
	"strings"
)

// ParseError reports input text that cannot be turned into records.
// Line is 1-based, or 0 when the problem is not tied to a line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

// ValidationError reports well-formed data that lacks required columns or values.
type ValidationError struct {
	MissingColumns []string
	IncompleteRows []int
	Msg            string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
