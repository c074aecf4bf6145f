package emit

import "fmt"

// CorrelationError occurs when no JNI prototype in the generated header
// matches a native method under the argument-count invariant. It aborts
// generation for the whole file.
type CorrelationError struct {
	ClassName  string
	MethodName string
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("no matching JNI prototype for native method '%s#%s'", e.ClassName, e.MethodName)
}
