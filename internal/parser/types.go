package parser

import "strings"

// Kind is the marshalling category of a native method argument.
type Kind int

const (
	// KindPlainOldData is a numeric or boolean scalar, passed through as-is.
	KindPlainOldData Kind = iota
	// KindObject is any reference type jnigen does not marshal; it crosses
	// the boundary as an opaque jobject handle.
	KindObject
	// KindString is java.lang.String, read via UTF-8 extraction.
	KindString
	// KindArray is a one-dimensional primitive array, pinned for the call.
	KindArray
	// KindBuffer is a direct NIO buffer; only its base address is taken.
	KindBuffer
)

// ArgumentType is the marshalling category of a declared Java type together
// with the C pointer type used to cast the acquired pointer. CType is empty
// for categories that need no marshalling.
type ArgumentType struct {
	Kind  Kind
	CType string
}

// Argument is one parameter of a native method. The name is carried as opaque
// text from the Java source: Java permits characters like '$' that are never
// re-validated against C identifier rules.
type Argument struct {
	Name string
	Type ArgumentType
}

var primitiveTypes = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
}

// Fixed Java-to-C pointer mapping for pinned primitive arrays.
var arrayCTypes = map[string]string{
	"boolean[]": "bool*",
	"byte[]":    "char*",
	"char[]":    "unsigned short*",
	"short[]":   "short*",
	"int[]":     "int*",
	"long[]":    "long long*",
	"float[]":   "float*",
	"double[]":  "double*",
}

// Fixed Java-to-C pointer mapping for direct buffers.
var bufferCTypes = map[string]string{
	"Buffer":       "unsigned char*",
	"ByteBuffer":   "char*",
	"CharBuffer":   "unsigned short*",
	"ShortBuffer":  "short*",
	"IntBuffer":    "int*",
	"LongBuffer":   "long long*",
	"FloatBuffer":  "float*",
	"DoubleBuffer": "double*",
}

// Classify maps a declared Java type to its marshalling category. The type
// sets are closed: scalar primitives, their one-dimensional arrays, String and
// the direct buffer family. Anything else is an opaque object handle.
func Classify(declared string) ArgumentType {
	t := normalizeType(declared)

	if primitiveTypes[t] {
		return ArgumentType{Kind: KindPlainOldData}
	}
	if t == "String" || t == "java.lang.String" {
		return ArgumentType{Kind: KindString, CType: "char*"}
	}
	if c, ok := arrayCTypes[t]; ok {
		return ArgumentType{Kind: KindArray, CType: c}
	}
	if c, ok := bufferCTypes[strings.TrimPrefix(t, "java.nio.")]; ok {
		return ArgumentType{Kind: KindBuffer, CType: c}
	}
	return ArgumentType{Kind: KindObject}
}

// normalizeType strips whitespace so "int [ ]" and "int[]" classify alike.
func normalizeType(declared string) string {
	return strings.Join(strings.Fields(declared), "")
}

// IsPlainOldData reports whether the argument is an unmarshalled scalar.
func (t ArgumentType) IsPlainOldData() bool { return t.Kind == KindPlainOldData }

// IsObject reports whether the argument is an opaque object handle.
func (t ArgumentType) IsObject() bool { return t.Kind == KindObject }

// IsString reports whether the argument is a Java string.
func (t ArgumentType) IsString() bool { return t.Kind == KindString }

// IsArray reports whether the argument is a primitive array.
func (t ArgumentType) IsArray() bool { return t.Kind == KindArray }

// IsBuffer reports whether the argument is a direct buffer.
func (t ArgumentType) IsBuffer() bool { return t.Kind == KindBuffer }

// NeedsMarshalling reports whether JNI setup/cleanup code must be generated
// for the argument. Strings and arrays are acquired and must be released;
// buffers only have their base address computed.
func (t ArgumentType) NeedsMarshalling() bool {
	return t.Kind == KindString || t.Kind == KindArray || t.Kind == KindBuffer
}
