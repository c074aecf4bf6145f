package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jnigen/jnigen/internal/config"
	"github.com/jnigen/jnigen/internal/gen"
	"github.com/jnigen/jnigen/internal/manifest"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool
	watchMode  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jnigen",
	Short: "Generate JNI C/C++ glue from annotated Java sources",
	Long: `jnigen scans a Java source tree for native methods annotated with embedded
C/C++ block comments, derives the JNI headers via javah and writes one .cpp
unit per class with all string, array and buffer marshalling generated.

A project is described by a jnigen.yaml manifest in its root directory:

  source_dir: src
  class_dir: bin
  jni_dir: jni
  excludes:
    - "**/legacy/**"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [project-dir]",
	Short: "Generate JNI glue for a project",
	Long: `Reads jnigen.yaml from the project directory (default: the working
directory), runs javah for every Java file containing native methods and
writes the generated .h/.cpp files into the configured JNI directory.

With --watch, jnigen stays running and regenerates whenever a Java source
file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to tool configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	generateCmd.Flags().BoolVar(&watchMode, "watch", false, "regenerate when Java sources change")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.LogLevel == "debug" && !verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	project, err := manifest.Parse(projectDir)
	if err != nil {
		return err
	}

	logger.Info("Starting jnigen",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
		zap.String("manifest", project.Path()),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	generator := gen.NewGenerator(
		afero.NewOsFs(),
		cfg,
		project,
		gen.NewJavahHeaderGen(cfg.Javah, logger),
		logger,
	)

	if err := generator.Generate(ctx); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	debounce := time.Duration(cfg.WatchDebounceMillis) * time.Millisecond
	watcher, err := gen.NewWatcher(generator, debounce, logger)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	cancel()
	watcher.Stop()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
