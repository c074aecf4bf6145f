package parser

import "fmt"

// ParseError occurs when a Java file contains a malformed native declaration
// or an unterminated embedded code block. It aborts the whole-file parse;
// partial segment lists are never returned.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}
