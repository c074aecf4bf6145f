package gen

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// HeaderGen derives the JNI header for a compiled class. It is a seam: the
// production implementation shells out to javah, tests supply a stub so the
// pipeline can run without a JDK.
type HeaderGen interface {
	Generate(ctx context.Context, className, classpath, outPath string) error
}

// JavahHeaderGen runs the javah tool from the JDK.
type JavahHeaderGen struct {
	javah  string
	logger *zap.Logger
}

// NewJavahHeaderGen creates a header generator invoking the given javah
// binary.
func NewJavahHeaderGen(javah string, logger *zap.Logger) *JavahHeaderGen {
	return &JavahHeaderGen{
		javah:  javah,
		logger: logger.With(zap.String("component", "javah")),
	}
}

// Generate invokes javah for one class, writing the header to outPath.
func (j *JavahHeaderGen) Generate(ctx context.Context, className, classpath, outPath string) error {
	cmd := exec.CommandContext(ctx, j.javah, "-classpath", classpath, "-o", outPath, className)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("javah failed for class '%s': %w: %s", className, err, out)
	}
	j.logger.Debug("Header generated",
		zap.String("class", className),
		zap.String("header", outPath),
	)
	return nil
}
