package parser

// Segment is one element of a scanned Java file, in source order: either a
// free-standing JNI section or a native method with an embedded body. Keeping
// both in a single ordered sequence guarantees the generated unit preserves
// the relative order of includes, macros and method bodies.
type Segment interface {
	segment()
}

// JniSection is a /*JNI ... */ block comment not attached to any method.
type JniSection struct {
	// NativeCode is the comment body after the JNI tag, verbatim.
	NativeCode string
	// StartLine is the 1-based line the comment opens on.
	StartLine int
}

func (*JniSection) segment() {}

// Method is a native method declaration paired with the embedded C/C++ body
// from the block comment that follows it.
type Method struct {
	ClassName  string
	Name       string
	IsStatic   bool
	Args       []Argument
	NativeCode string
	// StartLine is the 1-based line the signature begins on; EndLine is the
	// line the declaration ends on, which is where the body comment opens.
	StartLine int
	EndLine   int
}

func (*Method) segment() {}

// HasDisposableArgument reports whether any argument acquires a native
// resource that must be released before returning.
func (m *Method) HasDisposableArgument() bool {
	for _, arg := range m.Args {
		if arg.Type.NeedsMarshalling() {
			return true
		}
	}
	return false
}
