// Package emit produces one C++ compilation unit from the segments of a
// scanned Java file and the JNI prototypes of its generated header.
package emit

import (
	"fmt"
	"strings"

	"github.com/jnigen/jnigen/internal/cheader"
	"github.com/jnigen/jnigen/internal/parser"
)

const (
	// argPrefix disambiguates the raw JNI handle from the acquired pointer
	// of the same logical argument.
	argPrefix = "obj_"
	// returnValue names the temporary capturing the inner method's result in
	// a decomposed method.
	returnValue = "JNI_returnValue"
	// wrapperPrefix names the inner method holding the embedded body.
	wrapperPrefix = "wrapped_"
)

// acquired is one pointer obtained in the marshalling prologue.
type acquired struct {
	name  string
	cType string
}

// Emit generates the C++ unit for one Java file: the include of the
// correlated header, then every segment in source order. Raw JNI sections
// are spliced verbatim behind a line marker; native methods get marshalling
// setup, the embedded body and cleanup, decomposed into a wrapper pair when
// an early return could otherwise skip the cleanup.
func Emit(headerName string, segments []parser.Segment, cMethods []cheader.CMethod) (string, error) {
	var methods []*parser.Method
	for _, seg := range segments {
		if m, ok := seg.(*parser.Method); ok {
			methods = append(methods, m)
		}
	}
	matched, err := Correlate(methods, cMethods)
	if err != nil {
		return "", err
	}
	prototypes := make(map[*parser.Method]*cheader.CMethod, len(matched))
	for _, mt := range matched {
		prototypes[mt.Method] = mt.C
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "#include <%s>\n", headerName)

	for _, seg := range segments {
		switch s := seg.(type) {
		case *parser.JniSection:
			emitSection(&buf, s)
		case *parser.Method:
			emitMethod(&buf, s, prototypes[s])
		}
	}
	return buf.String(), nil
}

func emitLineMarker(buf *strings.Builder, line int) {
	fmt.Fprintf(buf, "\n//@line:%d\n", line)
}

func emitSection(buf *strings.Builder, s *parser.JniSection) {
	emitLineMarker(buf, s.StartLine)
	buf.WriteString(strings.ReplaceAll(s.NativeCode, "\r", ""))
}

func emitMethod(buf *strings.Builder, m *parser.Method, cm *cheader.CMethod) {
	// The embedded body is opaque text. If it contains a return and any
	// argument acquired a releasable resource, the body cannot be trusted to
	// fall through to the cleanup code, so the body moves into an inner
	// method and the wrapper owns acquisition and release. Substring search
	// over-approximates, which is the safe direction.
	if m.HasDisposableArgument() && strings.Contains(m.NativeCode, "return") {
		emitDecomposed(buf, m, cm)
		return
	}

	emitSignature(buf, m, cm, nil)
	emitSetup(buf, m)
	emitBody(buf, m)
	emitCleanup(buf, m)
	buf.WriteString("}\n\n")
}

func emitDecomposed(buf *strings.Builder, m *parser.Method, cm *cheader.CMethod) {
	ptrs := acquiredPointers(m)

	// Inner method: the embedded body and nothing else. It receives the
	// acquired pointers as trailing parameters and is not part of the
	// header's contract, hence internal linkage.
	fmt.Fprintf(buf, "static inline %s %s%s", cm.ReturnType, wrapperPrefix, cm.Name)
	emitParameterList(buf, m, cm, ptrs)
	emitBody(buf, m)
	buf.WriteString("}\n\n")

	// Wrapper: the signature declared in the header, owning setup, the
	// call-through and cleanup on the single exit path.
	emitSignature(buf, m, cm, nil)
	emitSetup(buf, m)
	call := fmt.Sprintf("%s%s(%s)", wrapperPrefix, cm.Name, strings.Join(callArguments(m, ptrs), ", "))
	if cm.ReturnType == "void" {
		fmt.Fprintf(buf, "\t%s;\n\n", call)
	} else {
		fmt.Fprintf(buf, "\t%s %s = %s;\n\n", cm.ReturnType, returnValue, call)
	}
	emitCleanup(buf, m)
	if cm.ReturnType != "void" {
		fmt.Fprintf(buf, "\treturn %s;\n", returnValue)
	}
	buf.WriteString("}\n\n")
}

// emitSignature writes the head exactly as declared in the header, followed
// by the parameter list.
func emitSignature(buf *strings.Builder, m *parser.Method, cm *cheader.CMethod, ptrs []acquired) {
	buf.WriteString(cm.Head)
	emitParameterList(buf, m, cm, ptrs)
}

// emitParameterList writes the fixed JNIEnv and class/instance parameters,
// one parameter per Java argument using the C type from the header, and any
// acquired-pointer parameters of an inner method. Arguments that get
// marshalled keep their raw handle under an argPrefix name so the acquired
// pointer can take the declared name.
func emitParameterList(buf *strings.Builder, m *parser.Method, cm *cheader.CMethod, ptrs []acquired) {
	if m.IsStatic {
		buf.WriteString("(JNIEnv* env, jclass clazz")
	} else {
		buf.WriteString("(JNIEnv* env, jobject object")
	}
	for i, arg := range m.Args {
		buf.WriteString(", ")
		buf.WriteString(cm.ArgumentTypes[i+2])
		buf.WriteString(" ")
		if arg.Type.NeedsMarshalling() {
			buf.WriteString(argPrefix)
		}
		buf.WriteString(arg.Name)
	}
	for _, p := range ptrs {
		fmt.Fprintf(buf, ", %s %s", p.cType, p.name)
	}
	buf.WriteString(") {\n")
}

// acquiredPointers lists the pointers the prologue produces, in acquisition
// order: buffers, then strings, then arrays.
func acquiredPointers(m *parser.Method) []acquired {
	var ptrs []acquired
	for _, arg := range m.Args {
		if arg.Type.IsBuffer() {
			ptrs = append(ptrs, acquired{name: arg.Name, cType: arg.Type.CType})
		}
	}
	for _, arg := range m.Args {
		if arg.Type.IsString() {
			ptrs = append(ptrs, acquired{name: arg.Name, cType: arg.Type.CType})
		}
	}
	for _, arg := range m.Args {
		if arg.Type.IsArray() {
			ptrs = append(ptrs, acquired{name: arg.Name, cType: arg.Type.CType})
		}
	}
	return ptrs
}

// callArguments builds the argument list the wrapper passes to the inner
// method: the fixed parameters, the original arguments and the acquired
// pointers, mirroring the inner parameter list exactly.
func callArguments(m *parser.Method, ptrs []acquired) []string {
	args := []string{"env"}
	if m.IsStatic {
		args = append(args, "clazz")
	} else {
		args = append(args, "object")
	}
	for _, arg := range m.Args {
		if arg.Type.NeedsMarshalling() {
			args = append(args, argPrefix+arg.Name)
		} else {
			args = append(args, arg.Name)
		}
	}
	for _, p := range ptrs {
		args = append(args, p.name)
	}
	return args
}

// emitSetup writes the marshalling prologue. The order is a hard constraint:
// buffer addresses and string pointers must be obtained before any array is
// pinned, because GetPrimitiveArrayCritical forbids further JNI calls until
// the matching release.
func emitSetup(buf *strings.Builder, m *parser.Method) {
	for _, arg := range m.Args {
		if arg.Type.IsBuffer() {
			t := arg.Type.CType
			fmt.Fprintf(buf, "\t%s %s = (%s)env->GetDirectBufferAddress(%s%s);\n", t, arg.Name, t, argPrefix, arg.Name)
		}
	}
	for _, arg := range m.Args {
		if arg.Type.IsString() {
			t := arg.Type.CType
			fmt.Fprintf(buf, "\t%s %s = (%s)env->GetStringUTFChars(%s%s, 0);\n", t, arg.Name, t, argPrefix, arg.Name)
		}
	}
	for _, arg := range m.Args {
		if arg.Type.IsArray() {
			t := arg.Type.CType
			fmt.Fprintf(buf, "\t%s %s = (%s)env->GetPrimitiveArrayCritical(%s%s, 0);\n", t, arg.Name, t, argPrefix, arg.Name)
		}
	}
	buf.WriteString("\n")
}

// emitCleanup writes the release epilogue in reverse category order: arrays
// first, then strings. Buffer addresses are computed, not acquired, and need
// no release.
func emitCleanup(buf *strings.Builder, m *parser.Method) {
	for _, arg := range m.Args {
		if arg.Type.IsArray() {
			fmt.Fprintf(buf, "\tenv->ReleasePrimitiveArrayCritical(%s%s, %s, 0);\n", argPrefix, arg.Name, arg.Name)
		}
	}
	for _, arg := range m.Args {
		if arg.Type.IsString() {
			fmt.Fprintf(buf, "\tenv->ReleaseStringUTFChars(%s%s, %s);\n", argPrefix, arg.Name, arg.Name)
		}
	}
	buf.WriteString("\n")
}

func emitBody(buf *strings.Builder, m *parser.Method) {
	emitLineMarker(buf, m.EndLine)
	buf.WriteString(m.NativeCode)
	buf.WriteString("\n")
}
