package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfelder/codesweep/internal/analyze"
	"github.com/jfelder/codesweep/internal/config"
	"github.com/jfelder/codesweep/internal/output"
	"github.com/jfelder/codesweep/internal/report"
)

var (
	flagConfig   string
	flagProvider string
	flagModel    string
	flagFormat   string
	flagOut      string
	flagWorkers  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a file or directory tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (YAML)")
	analyzeCmd.Flags().StringVar(&flagProvider, "provider", "", "Completion provider (local, openai)")
	analyzeCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	analyzeCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, markdown)")
	analyzeCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent file analyses")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitCode = ExitUsageError
		return err
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		exitCode = ExitUsageError
		return err
	}

	logger := newLogger(cfg.LogLevel)

	analyzer, err := analyze.New(cfg, logger)
	if err != nil {
		exitCode = ExitUsageError
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		exitCode = ExitUsageError
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}

	var result report.DirectoryResult
	ctx := cmd.Context()
	if info.IsDir() {
		result, err = analyzer.AnalyzeDirectory(ctx, path)
	} else {
		var fileResult report.FileResult
		fileResult, err = analyzer.AnalyzeFile(ctx, path)
		result = report.DirectoryResult{Files: []report.FileResult{fileResult}}
	}
	if err != nil {
		if errors.Is(err, analyze.ErrNotFound) || errors.Is(err, analyze.ErrNotADirectory) {
			exitCode = ExitUsageError
		} else {
			exitCode = ExitRuntimeError
		}
		return err
	}

	if err := output.WriteResult(result, flagFormat, flagOut); err != nil {
		exitCode = ExitRuntimeError
		return err
	}

	for _, f := range result.Files {
		if f.PatternFindings.Total() > 0 || f.AIFindings.Total() > 0 {
			exitCode = ExitFindings
			break
		}
	}
	return nil
}
