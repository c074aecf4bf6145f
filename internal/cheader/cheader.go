// Package cheader reads the C header files produced by javah and extracts the
// JNI prototypes native method declarations are correlated against.
package cheader

import (
	"fmt"
	"strings"
)

// CMethod is one JNIEXPORT prototype from a generated header. The first two
// argument types are always the JNIEnv pointer and the jclass/jobject slot;
// they never correspond to a declared Java argument.
type CMethod struct {
	// Head is the declaration head normalized to a single line:
	// "JNIEXPORT <return type> JNICALL <mangled name>".
	Head          string
	ReturnType    string
	Name          string
	ArgumentTypes []string
}

// ParseError occurs when a header contains a JNIEXPORT line that cannot be
// read as a prototype. Generated headers are machine written, so this
// normally indicates a truncated or hand-edited file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("header parse error at line %d: %s", e.Line, e.Message)
}

// Parse extracts all JNI prototypes from a javah-generated header, in file
// order. Prototypes folded across lines are normalized.
func Parse(source string) ([]CMethod, error) {
	var methods []CMethod

	pos := 0
	for {
		idx := strings.Index(source[pos:], "JNIEXPORT")
		if idx < 0 {
			return methods, nil
		}
		start := pos + idx
		line := 1 + strings.Count(source[:start], "\n")

		open := strings.IndexByte(source[start:], '(')
		if open < 0 {
			return nil, &ParseError{Line: line, Message: "JNIEXPORT declaration without parameter list"}
		}
		head := strings.Join(strings.Fields(source[start:start+open]), " ")

		tokens := strings.Fields(head)
		if len(tokens) < 4 || tokens[2] != "JNICALL" {
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("malformed JNIEXPORT declaration %q", head)}
		}

		closeIdx := strings.IndexByte(source[start+open:], ')')
		if closeIdx < 0 {
			return nil, &ParseError{Line: line, Message: "unterminated parameter list in JNIEXPORT declaration"}
		}
		params := source[start+open+1 : start+open+closeIdx]

		var argTypes []string
		for _, p := range strings.Split(params, ",") {
			p = strings.Join(strings.Fields(p), " ")
			if p != "" {
				argTypes = append(argTypes, p)
			}
		}
		if len(argTypes) < 2 {
			return nil, &ParseError{Line: line, Message: "JNIEXPORT declaration is missing the fixed JNIEnv and class/instance parameters"}
		}

		methods = append(methods, CMethod{
			Head:          head,
			ReturnType:    tokens[1],
			Name:          tokens[3],
			ArgumentTypes: argTypes,
		})
		pos = start + open + closeIdx + 1
	}
}
