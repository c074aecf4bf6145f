package emit

import (
	"strings"

	"github.com/jnigen/jnigen/internal/cheader"
	"github.com/jnigen/jnigen/internal/parser"
)

// Matched pairs a parsed native method with the JNI prototype it will be
// emitted against.
type Matched struct {
	Method *parser.Method
	C      *cheader.CMethod
}

// Correlate resolves every native method against the prototypes parsed from
// the generated header. The header name already mangles class and method
// together, so the match key is a plain substring search for
// "ClassName_MethodName". Overloads share that substring and are
// disambiguated by argument count only: the prototype carries two fixed
// leading parameters (JNIEnv and the class/instance slot) that never appear
// in the Java argument list. This is deliberately not type-aware overload
// resolution; see the project design notes.
//
// A method with no matching prototype is fatal for the whole file: it means
// the declared and the javah-derived signature sets disagree, which cannot be
// reconciled here.
func Correlate(methods []*parser.Method, cMethods []cheader.CMethod) ([]Matched, error) {
	matched := make([]Matched, 0, len(methods))
	for _, m := range methods {
		cm := findCMethod(m, cMethods)
		if cm == nil {
			return nil, &CorrelationError{ClassName: m.ClassName, MethodName: m.Name}
		}
		matched = append(matched, Matched{Method: m, C: cm})
	}
	return matched, nil
}

func findCMethod(m *parser.Method, cMethods []cheader.CMethod) *cheader.CMethod {
	token := m.ClassName + "_" + m.Name
	for i := range cMethods {
		cm := &cMethods[i]
		if strings.Contains(cm.Head, token) && len(cm.ArgumentTypes)-2 == len(m.Args) {
			return cm
		}
	}
	return nil
}
