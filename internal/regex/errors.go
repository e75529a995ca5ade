package regex

import "fmt"

// ParseError reports a malformed pattern. Pos is a byte offset into Pattern;
// problems detected at the end of input use len(Pattern).
type ParseError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("regex: %s at offset %d in %q", e.Msg, e.Pos, e.Pattern)
}

func parseErrorf(pattern string, pos int, format string, args ...any) *ParseError {
	return &ParseError{Pattern: pattern, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
