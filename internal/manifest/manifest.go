// Package manifest reads the per-project jnigen.yaml file that tells the
// generator where Java sources, compiled classes and generated JNI output
// live.
package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "jnigen.yaml"

// Manifest describes one project to generate JNI glue for. All paths are
// relative to the directory containing the manifest.
type Manifest struct {
	Name      string   `yaml:"name"`
	SourceDir string   `yaml:"source_dir"`
	ClassDir  string   `yaml:"class_dir"`
	JniDir    string   `yaml:"jni_dir"`
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`

	// Directory containing the manifest.
	dir string
}

// Parse reads and validates jnigen.yaml from a project directory.
func Parse(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks manifest fields.
func (m *Manifest) Validate() error {
	if m.SourceDir == "" {
		return &ValidationError{
			Path:    m.Path(),
			Field:   "source_dir",
			Message: "source_dir is required",
		}
	}
	if m.ClassDir == "" {
		return &ValidationError{
			Path:    m.Path(),
			Field:   "class_dir",
			Message: "class_dir is required",
		}
	}
	if m.JniDir == "" {
		return &ValidationError{
			Path:    m.Path(),
			Field:   "jni_dir",
			Message: "jni_dir is required",
		}
	}
	return nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, FileName)
}

// SourcePath returns the absolute path of the Java source directory.
func (m *Manifest) SourcePath() string {
	return filepath.Join(m.dir, m.SourceDir)
}

// ClassPath returns the absolute path of the compiled class directory.
func (m *Manifest) ClassPath() string {
	return filepath.Join(m.dir, m.ClassDir)
}

// JniPath returns the absolute path of the generated output directory.
func (m *Manifest) JniPath() string {
	return filepath.Join(m.dir, m.JniDir)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}
