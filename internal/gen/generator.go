// Package gen drives JNI glue generation for a whole project: it walks the
// Java source tree, derives headers via javah, runs the parse/correlate/emit
// pipeline per file and writes the resulting compilation units.
package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jnigen/jnigen/internal/cheader"
	"github.com/jnigen/jnigen/internal/config"
	"github.com/jnigen/jnigen/internal/emit"
	"github.com/jnigen/jnigen/internal/manifest"
	"github.com/jnigen/jnigen/internal/parser"
)

// nativeMarker cheaply pre-filters files before parsing: a file without the
// keyword anywhere cannot contain a native method.
const nativeMarker = "native"

// Generator generates JNI glue for one project. It holds no per-file state;
// every file is parsed, correlated and emitted independently.
type Generator struct {
	fs        afero.Fs
	cfg       *config.Config
	project   *manifest.Manifest
	headerGen HeaderGen
	logger    *zap.Logger
}

// NewGenerator creates a generator for the given project.
func NewGenerator(fs afero.Fs, cfg *config.Config, project *manifest.Manifest, headerGen HeaderGen, logger *zap.Logger) *Generator {
	return &Generator{
		fs:        fs,
		cfg:       cfg,
		project:   project,
		headerGen: headerGen,
		logger:    logger.With(zap.String("component", "generator")),
	}
}

// Project returns the manifest the generator was built for.
func (g *Generator) Project() *manifest.Manifest {
	return g.project
}

// Generate runs generation over the whole source tree. The first failing file
// aborts the run; a failed file never leaves a partial .cpp behind because
// emission is completed in memory before the single write.
func (g *Generator) Generate(ctx context.Context) error {
	sourceDir := g.project.SourcePath()
	jniDir := g.project.JniPath()

	exists, err := afero.DirExists(g.fs, sourceDir)
	if err != nil {
		return fmt.Errorf("checking source directory '%s': %w", sourceDir, err)
	}
	if !exists {
		return fmt.Errorf("java source directory '%s' does not exist", sourceDir)
	}
	if err := g.fs.MkdirAll(jniDir, 0o755); err != nil {
		return fmt.Errorf("creating JNI directory '%s': %w", jniDir, err)
	}
	if err := g.copyJniHeaders(jniDir); err != nil {
		return err
	}

	return afero.Walk(g.fs, sourceDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			if strings.Contains(path, ".svn") || g.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		if !g.included(rel) || g.excluded(rel) {
			return nil
		}
		return g.generateFile(ctx, path, rel, jniDir)
	})
}

// included reports whether a source-relative path passes the include globs.
// No includes means everything is included.
func (g *Generator) included(rel string) bool {
	if len(g.project.Includes) == 0 {
		return true
	}
	for _, pattern := range g.project.Includes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (g *Generator) excluded(rel string) bool {
	for _, pattern := range g.project.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// generateFile runs the three-stage pipeline for one Java file.
func (g *Generator) generateFile(ctx context.Context, path, rel, jniDir string) error {
	content, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return fmt.Errorf("reading '%s': %w", path, err)
	}
	if !strings.Contains(string(content), nativeMarker) {
		return nil
	}

	className := strings.ReplaceAll(strings.TrimSuffix(rel, ".java"), "/", ".")
	log := g.logger.With(zap.String("file", path), zap.String("class", className))
	log.Info("Generating JNI glue")

	headerName := className + ".h"
	headerPath := filepath.Join(jniDir, headerName)
	if err := g.headerGen.Generate(ctx, className, g.project.ClassPath(), headerPath); err != nil {
		return fmt.Errorf("deriving header for '%s': %w", className, err)
	}
	headerContent, err := afero.ReadFile(g.fs, headerPath)
	if err != nil {
		return fmt.Errorf("reading generated header '%s': %w", headerPath, err)
	}

	segments, err := parser.Parse(string(content))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cMethods, err := cheader.Parse(string(headerContent))
	if err != nil {
		return fmt.Errorf("%s: %w", headerPath, err)
	}

	unit, err := emit.Emit(headerName, segments, cMethods)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cppPath := filepath.Join(jniDir, className+".cpp")
	if err := afero.WriteFile(g.fs, cppPath, []byte(unit), 0o644); err != nil {
		return fmt.Errorf("writing '%s': %w", cppPath, err)
	}
	log.Info("Wrote compilation unit",
		zap.String("output", cppPath),
		zap.Int("segments", len(segments)),
	)
	return nil
}

// copyJniHeaders mirrors the configured platform JNI headers into
// <jniDir>/jni-headers so the generated units compile standalone.
func (g *Generator) copyJniHeaders(jniDir string) error {
	src := g.cfg.JniHeadersDir
	if src == "" {
		return nil
	}
	dst := filepath.Join(jniDir, "jni-headers")

	return afero.Walk(g.fs, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("copying JNI headers from '%s': %w", src, walkErr)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return g.fs.MkdirAll(target, 0o755)
		}
		data, err := afero.ReadFile(g.fs, path)
		if err != nil {
			return fmt.Errorf("reading JNI header '%s': %w", path, err)
		}
		return afero.WriteFile(g.fs, target, data, 0o644)
	})
}
