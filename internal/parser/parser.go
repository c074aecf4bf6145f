package parser

import (
	"regexp"
	"strings"
)

var (
	nativeWord = regexp.MustCompile(`\bnative\b`)
	staticWord = regexp.MustCompile(`\bstatic\b`)
	classDecl  = regexp.MustCompile(`\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

// Parse scans one Java source file and returns its segments in source order.
// Only two constructs are recognized: /*JNI ... */ sections and native method
// declarations immediately followed on the same line by a block comment
// holding the embedded body. Everything else (package, imports, class
// scaffolding, plain Java methods) is structural noise and produces no
// segment. A malformed declaration or an unterminated comment fails the whole
// file; no partial result is returned.
func Parse(source string) ([]Segment, error) {
	sc := &scanner{src: source, line: 1}
	if err := sc.run(); err != nil {
		return nil, err
	}
	return sc.segments, nil
}

// scanner is a single-pass line-tracking scanner. It accumulates the current
// statement text so that a block comment can be attached to the native method
// declaration that precedes it.
type scanner struct {
	src  string
	pos  int
	line int

	segments []Segment

	stmt          strings.Builder
	stmtStartLine int

	lastStmt      string
	lastStmtStart int
	lastStmtEnd   int

	// attachable is true while only blanks have been seen since a ';' on the
	// current line; a block comment opening in that window belongs to the
	// statement that just ended.
	attachable bool

	classStack []string
}

func (sc *scanner) run() error {
	src := sc.src
	for sc.pos < len(src) {
		c := src[sc.pos]
		switch {
		case c == '\n':
			sc.line++
			sc.attachable = false
			sc.appendStmt(c)
			sc.pos++

		case c == '/' && sc.pos+1 < len(src) && src[sc.pos+1] == '/':
			for sc.pos < len(src) && src[sc.pos] != '\n' {
				sc.pos++
			}

		case c == '/' && sc.pos+1 < len(src) && src[sc.pos+1] == '*':
			if err := sc.blockComment(); err != nil {
				return err
			}

		case c == '"':
			sc.skipLiteral('"')
			sc.attachable = false

		case c == '\'':
			sc.skipLiteral('\'')
			sc.attachable = false

		case c == ';':
			sc.lastStmt = sc.stmt.String()
			sc.lastStmtStart = sc.stmtStartLine
			sc.lastStmtEnd = sc.line
			sc.stmt.Reset()
			sc.attachable = true
			sc.pos++

		case c == '{':
			name := ""
			if m := classDecl.FindStringSubmatch(sc.stmt.String()); m != nil {
				name = m[1]
			}
			sc.classStack = append(sc.classStack, name)
			sc.stmt.Reset()
			sc.attachable = false
			sc.pos++

		case c == '}':
			if n := len(sc.classStack); n > 0 {
				sc.classStack = sc.classStack[:n-1]
			}
			sc.stmt.Reset()
			sc.attachable = false
			sc.pos++

		default:
			sc.appendStmt(c)
			if c != ' ' && c != '\t' && c != '\r' {
				sc.attachable = false
			}
			sc.pos++
		}
	}
	return nil
}

// appendStmt adds a character to the current statement, folding whitespace
// and remembering the line the statement started on.
func (sc *scanner) appendStmt(c byte) {
	if c == '\n' || c == '\r' || c == '\t' {
		c = ' '
	}
	if sc.stmt.Len() == 0 {
		if c == ' ' {
			return
		}
		sc.stmtStartLine = sc.line
	}
	sc.stmt.WriteByte(c)
}

// skipLiteral advances past a string or character literal so that braces,
// semicolons and comment openers inside it are not misread as structure.
func (sc *scanner) skipLiteral(quote byte) {
	sc.appendStmt(sc.src[sc.pos])
	sc.pos++
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		if c == '\\' && sc.pos+1 < len(sc.src) {
			sc.pos += 2
			continue
		}
		if c == '\n' {
			sc.line++
		}
		sc.pos++
		if c == quote {
			return
		}
	}
}

func (sc *scanner) blockComment() error {
	startLine := sc.line
	attach := sc.attachable
	sc.attachable = false

	rest := sc.src[sc.pos+2:]
	end := strings.Index(rest, "*/")
	if end < 0 {
		return &ParseError{Line: startLine, Message: "unterminated block comment"}
	}
	content := rest[:end]
	sc.pos += 2 + end + 2
	sc.line += strings.Count(content, "\n")

	switch {
	case strings.HasPrefix(content, "JNI"):
		sc.segments = append(sc.segments, &JniSection{
			NativeCode: strings.TrimPrefix(content, "JNI"),
			StartLine:  startLine,
		})

	case attach && nativeWord.MatchString(sc.lastStmt):
		method, err := sc.parseMethod()
		if err != nil {
			return err
		}
		method.NativeCode = content
		sc.segments = append(sc.segments, method)
	}
	return nil
}

// parseMethod turns the statement preceding an attached comment into a
// Method. The statement is known to contain the native keyword.
func (sc *scanner) parseMethod() (*Method, error) {
	stmt := sc.lastStmt

	// The parameter list is the last balanced paren group in the statement:
	// annotations with arguments may open earlier groups, a throws clause may
	// follow, but nothing inside a Java parameter list contains parens.
	closeIdx := strings.LastIndexByte(stmt, ')')
	if closeIdx < 0 {
		if strings.IndexByte(stmt, '(') >= 0 {
			return nil, &ParseError{Line: sc.lastStmtStart, Message: "unbalanced parentheses in native method declaration"}
		}
		return nil, &ParseError{Line: sc.lastStmtStart, Message: "native method declaration without parameter list"}
	}

	depth := 0
	open := -1
	for i := closeIdx; i >= 0 && open < 0; i-- {
		switch stmt[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				open = i
			}
		}
	}
	if open < 0 {
		return nil, &ParseError{Line: sc.lastStmtStart, Message: "unbalanced parentheses in native method declaration"}
	}

	name := trailingIdentifier(stmt[:open])
	if name == "" {
		return nil, &ParseError{Line: sc.lastStmtStart, Message: "cannot determine native method name"}
	}

	args, err := parseArguments(stmt[open+1:closeIdx], sc.lastStmtStart)
	if err != nil {
		return nil, err
	}

	return &Method{
		ClassName: sc.currentClass(),
		Name:      name,
		IsStatic:  staticWord.MatchString(stmt[:open]),
		Args:      args,
		StartLine: sc.lastStmtStart,
		EndLine:   sc.lastStmtEnd,
	}, nil
}

func (sc *scanner) currentClass() string {
	for i := len(sc.classStack) - 1; i >= 0; i-- {
		if sc.classStack[i] != "" {
			return sc.classStack[i]
		}
	}
	return ""
}

// parseArguments splits a parameter list on top-level commas and extracts one
// (type, name) pair per parameter. Names are kept verbatim.
func parseArguments(list string, line int) ([]Argument, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	var args []Argument
	for _, part := range splitTopLevel(list) {
		fields := strings.Fields(part)

		// Drop modifiers and parameter annotations; they carry no type
		// information.
		kept := fields[:0]
		for _, f := range fields {
			if f == "final" || strings.HasPrefix(f, "@") {
				continue
			}
			kept = append(kept, f)
		}
		if len(kept) < 2 {
			return nil, &ParseError{Line: line, Message: "parameter '" + strings.TrimSpace(part) + "' is missing a type or name"}
		}

		name := kept[len(kept)-1]
		typeTokens := kept[:len(kept)-1]

		// C-style array declarators attach the brackets to the name.
		for strings.HasSuffix(name, "[]") {
			name = name[:len(name)-2]
			typeTokens = append(typeTokens, "[]")
		}
		if name == "" {
			return nil, &ParseError{Line: line, Message: "parameter '" + strings.TrimSpace(part) + "' is missing a name"}
		}

		args = append(args, Argument{
			Name: name,
			Type: Classify(strings.Join(typeTokens, " ")),
		})
	}
	return args, nil
}

// splitTopLevel splits on commas that are not nested in generics, brackets or
// parentheses.
func splitTopLevel(list string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, list[start:])
}

// trailingIdentifier returns the identifier ending the given text, or "".
func trailingIdentifier(s string) string {
	s = strings.TrimRight(s, " ")
	end := len(s)
	i := end
	for i > 0 && isIdentByte(s[i-1]) {
		i--
	}
	return s[i:end]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}
