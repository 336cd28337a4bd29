package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrMissingGitVars = errors.New("missing git variables")
	ErrUnknownOutput  = errors.New("unknown output")
	ErrLimitExceeded  = errors.New("size limit exceeded")
)

//go:generate mockgen -source=run.go -destination=mocks/mock_run.go -package=mocks

// Analyzer measures every file selected by a NormalizedConfig.
type Analyzer interface {
	Analyze(ctx context.Context, config NormalizedConfig) ([]FileReport, error)
}

type resolvedOutput struct {
	output  Output
	options map[string]any
}

// Run validates and normalizes config, measures the files, and hands the
// report to every configured output. It returns ErrLimitExceeded when any file
// is over its limit.
func Run(ctx context.Context, config Config, analyzer Analyzer, registry *Registry, logger zerolog.Logger) error {
	if err := ValidateConfig(config).Err(); err != nil {
		return err
	}

	normalized := NormalizeConfig(config)
	logger.Debug().
		Str("baseDir", normalized.BaseDir).
		Str("defaultCompression", string(normalized.DefaultCompression)).
		Bool("onlyLocalAnalyze", normalized.OnlyLocalAnalyze).
		Int("files", len(normalized.Files)).
		Msg("Config loaded")

	outputs := make([]resolvedOutput, 0, len(normalized.ReportOutput))
	for _, entry := range normalized.ReportOutput {
		o, ok := registry.Get(entry.Name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOutput, entry.Name)
		}
		outputs = append(outputs, resolvedOutput{output: o, options: entry.Options})
	}

	var gitVars *GitVars
	if !normalized.OnlyLocalAnalyze {
		gitVars = GetGitVars(logger)
		if gitVars == nil {
			return ErrMissingGitVars
		}
	}

	files, err := analyzer.Analyze(ctx, normalized)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	report := newReport(normalized.BaseDir, files, gitVars)

	for _, ro := range outputs {
		logger.Debug().Str("output", ro.output.Name()).Msg("Sending report")
		if err := ro.output.Report(ctx, report, ro.options); err != nil {
			return fmt.Errorf("output %s: %w", ro.output.Name(), err)
		}
	}

	if report.Status == StatusFail {
		return ErrLimitExceeded
	}

	logger.Info().Int("files", len(report.Files)).Msg("All files are within their limits")
	return nil
}
