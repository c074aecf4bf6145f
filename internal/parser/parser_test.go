package parser

import (
	"errors"
	"strings"
	"testing"
)

const sampleSource = `package com.example;

public class MyJniClass {
	/*JNI
	#include <math.h>
	*/

	public static native void addToArray(float[] array, int len, float value); /*
		for(int i = 0; i < len; i++) array[i] = value;
	*/
}`

func TestParseSectionAndMethod(t *testing.T) {
	segments, err := Parse(sampleSource)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	section, ok := segments[0].(*JniSection)
	if !ok {
		t.Fatalf("segment 0 is %T, want *JniSection", segments[0])
	}
	if section.StartLine != 4 {
		t.Errorf("section StartLine = %d, want 4", section.StartLine)
	}
	if !strings.Contains(section.NativeCode, "#include <math.h>") {
		t.Errorf("section code %q is missing the include", section.NativeCode)
	}

	method, ok := segments[1].(*Method)
	if !ok {
		t.Fatalf("segment 1 is %T, want *Method", segments[1])
	}
	if method.ClassName != "MyJniClass" {
		t.Errorf("ClassName = %q, want MyJniClass", method.ClassName)
	}
	if method.Name != "addToArray" {
		t.Errorf("Name = %q, want addToArray", method.Name)
	}
	if !method.IsStatic {
		t.Error("method should be static")
	}
	if method.StartLine != 8 || method.EndLine != 8 {
		t.Errorf("position = %d..%d, want 8..8", method.StartLine, method.EndLine)
	}
	if !strings.Contains(method.NativeCode, "array[i] = value;") {
		t.Errorf("embedded code %q is missing the body", method.NativeCode)
	}

	wantArgs := []struct {
		name string
		kind Kind
	}{
		{"array", KindArray},
		{"len", KindPlainOldData},
		{"value", KindPlainOldData},
	}
	if len(method.Args) != len(wantArgs) {
		t.Fatalf("got %d arguments, want %d", len(method.Args), len(wantArgs))
	}
	for i, want := range wantArgs {
		if method.Args[i].Name != want.name {
			t.Errorf("arg %d name = %q, want %q", i, method.Args[i].Name, want.name)
		}
		if method.Args[i].Type.Kind != want.kind {
			t.Errorf("arg %d kind = %v, want %v", i, method.Args[i].Type.Kind, want.kind)
		}
	}
}

func TestParseInstanceMethod(t *testing.T) {
	src := `class Text {
	public native char charAt(String text, int index); /* return text[index]; */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	method := segments[0].(*Method)
	if method.IsStatic {
		t.Error("method should not be static")
	}
	if method.Args[0].Name != "text" || !method.Args[0].Type.IsString() {
		t.Errorf("first argument = %+v, want string 'text'", method.Args[0])
	}
}

func TestParseOpaqueArgumentNames(t *testing.T) {
	// Java identifiers may contain '$'; names are carried verbatim.
	src := `class C {
	public native void f(int a$b, String $c); /* x */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	method := segments[0].(*Method)
	if method.Args[0].Name != "a$b" {
		t.Errorf("arg 0 name = %q, want a$b", method.Args[0].Name)
	}
	if method.Args[1].Name != "$c" {
		t.Errorf("arg 1 name = %q, want $c", method.Args[1].Name)
	}
}

func TestParseCStyleArrayDeclarator(t *testing.T) {
	src := `class C {
	public native void f(int data[], int len); /* x */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	arg := segments[0].(*Method).Args[0]
	if arg.Name != "data" {
		t.Errorf("name = %q, want data", arg.Name)
	}
	if !arg.Type.IsArray() || arg.Type.CType != "int*" {
		t.Errorf("type = %+v, want int array", arg.Type)
	}
}

func TestParseSignatureSpanningLines(t *testing.T) {
	src := `class C {
	public static native void copy(byte[] src,
		int n); /* memcpy(0, src, n); */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	method := segments[0].(*Method)
	if method.StartLine != 2 {
		t.Errorf("StartLine = %d, want 2", method.StartLine)
	}
	if method.EndLine != 3 {
		t.Errorf("EndLine = %d, want 3", method.EndLine)
	}
	if len(method.Args) != 2 {
		t.Fatalf("got %d arguments, want 2", len(method.Args))
	}
}

func TestParseOrderingPreserved(t *testing.T) {
	src := `class C {
	/*JNI one */
	public native void a(); /* x */
	/*JNI two */
	public native void b(); /* y */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	wantTypes := []string{"section", "method", "section", "method"}
	if len(segments) != len(wantTypes) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantTypes))
	}
	for i, want := range wantTypes {
		_, isSection := segments[i].(*JniSection)
		if (want == "section") != isSection {
			t.Errorf("segment %d: got %T, want %s", i, segments[i], want)
		}
	}
	if segments[1].(*Method).Name != "a" || segments[3].(*Method).Name != "b" {
		t.Error("method order not preserved")
	}
}

func TestParseInnerClass(t *testing.T) {
	src := `public class Outer {
	public static class Inner {
		public native void f(int a); /* x */
	}
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if got := segments[0].(*Method).ClassName; got != "Inner" {
		t.Errorf("ClassName = %q, want Inner", got)
	}
}

func TestParseIgnoresNoise(t *testing.T) {
	src := `package com.example;

import java.nio.ByteBuffer;

/* plain comment, not attached to anything native */
public class C {
	// a native reference in a line comment: native
	private String s = "/* not a comment, native */";

	public int plainJava(int a) {
		return a * 2;
	}

	public native void noBody(int a);
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(segments))
	}
}

func TestParseUnterminatedComment(t *testing.T) {
	src := `class C {
	public native void f(); /* oops`
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() should fail on an unterminated comment")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("error line = %d, want 2", parseErr.Line)
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	src := `class C {
	public native void f(int a; /* x */
}`
	_, err := Parse(src)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "parentheses") {
		t.Errorf("unexpected message %q", parseErr.Message)
	}
	if parseErr.Line != 2 {
		t.Errorf("error line = %d, want 2", parseErr.Line)
	}
}

func TestParseMissingArgumentType(t *testing.T) {
	src := `class C {
	public native void f(int); /* x */
}`
	_, err := Parse(src)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "missing a type") {
		t.Errorf("unexpected message %q", parseErr.Message)
	}
}

func TestParseOverloads(t *testing.T) {
	src := `class C {
	public native int foo(int a); /* return a; */
	public native int foo(int a, int b); /* return a + b; */
}`
	segments, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	first := segments[0].(*Method)
	second := segments[1].(*Method)
	if first.Name != "foo" || second.Name != "foo" {
		t.Error("both methods should be named foo")
	}
	if len(first.Args) != 1 || len(second.Args) != 2 {
		t.Errorf("argument counts = %d, %d, want 1, 2", len(first.Args), len(second.Args))
	}
}
