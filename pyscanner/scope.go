package pyscanner

import "strings"

// ScopeFrame is (name, indent_level): pushed when a function or class
// header is recognized, popped when the indentation engine dedents to a
// level at or below indent_level. Ported from original_source's
// ScopeInfo struct.
type ScopeFrame struct {
	Name        string
	IndentLevel int
}

// scopePath renders the active scope stack as the @-joined concatenation
// from innermost to outermost, or "global" when the stack is empty.
// Ported from original_source's getScope().
func scopePath(stack []ScopeFrame) string {
	if len(stack) == 0 {
		return "global"
	}
	names := make([]string, len(stack))
	for i, frame := range stack {
		names[len(stack)-1-i] = frame.Name
	}
	return strings.Join(names, "@")
}
