package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestParseValid(t *testing.T) {
	dir := writeManifest(t, `
name: gdx-natives
source_dir: src
class_dir: bin
jni_dir: jni
includes:
  - "**/natives/**"
excludes:
  - "**/legacy/**"
`)
	m, err := Parse(dir)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if m.Name != "gdx-natives" {
		t.Errorf("Name = %q, want gdx-natives", m.Name)
	}
	if m.SourceDir != "src" || m.ClassDir != "bin" || m.JniDir != "jni" {
		t.Errorf("directories = %q/%q/%q, want src/bin/jni", m.SourceDir, m.ClassDir, m.JniDir)
	}
	if len(m.Includes) != 1 || len(m.Excludes) != 1 {
		t.Errorf("includes/excludes = %v/%v", m.Includes, m.Excludes)
	}

	if got, want := m.SourcePath(), filepath.Join(dir, "src"); got != want {
		t.Errorf("SourcePath() = %q, want %q", got, want)
	}
	if got, want := m.JniPath(), filepath.Join(dir, "jni"); got != want {
		t.Errorf("JniPath() = %q, want %q", got, want)
	}
}

func TestParseNotFound(t *testing.T) {
	_, err := Parse(t.TempDir())
	if err == nil {
		t.Fatal("Parse() should fail for a directory without a manifest")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected *NotFoundError, got %T", err)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	dir := writeManifest(t, "source_dir: [unclosed")
	_, err := Parse(dir)
	if err == nil {
		t.Fatal("Parse() should fail for invalid YAML")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestParseMissingRequiredFields(t *testing.T) {
	dir := writeManifest(t, "class_dir: bin\njni_dir: jni\n")
	_, err := Parse(dir)
	if err == nil {
		t.Fatal("Parse() should fail without source_dir")
	}
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if validationErr.Field != "source_dir" {
		t.Errorf("Field = %q, want source_dir", validationErr.Field)
	}
}
