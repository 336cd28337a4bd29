package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"go.iain.rocks/bundlemon/app/domain"
	"go.iain.rocks/bundlemon/app/infra/analyzer"
	"go.iain.rocks/bundlemon/app/infra/config"
	"go.iain.rocks/bundlemon/app/infra/outputs"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

var errConfigNotFound = errors.New("cant find config or the config file is empty")

// analyzeFunc runs the analysis for a discovered config.
type analyzeFunc func(ctx context.Context, cfg domain.Config, logger zerolog.Logger, stdout io.Writer) error

func analyze(ctx context.Context, cfg domain.Config, logger zerolog.Logger, stdout io.Writer) error {
	registry := outputs.NewRegistry(stdout, logger)
	return domain.Run(ctx, cfg, analyzer.New(logger), registry, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, analyze)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, analyze analyzeFunc) int {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "The config file to be used, skips the config search",
				Aliases: []string{"c"},
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Only analyze local files, no CI variables needed",
			},
		},
		Name:      config.ModuleName,
		Usage:     "Check bundle sizes against their limits",
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(ctx context.Context, c *cli.Command) error {
			res, err := findConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if res == nil || res.IsEmpty {
				return errConfigNotFound
			}

			cfg := res.Config
			if c.Bool("local") {
				local := true
				cfg.OnlyLocalAnalyze = &local
			}

			log := logger
			if cfg.Verbose != nil && *cfg.Verbose {
				log = logger.Level(zerolog.DebugLevel)
			}
			log.Debug().Str("path", res.Filepath).Msg("Config file found")

			return analyze(ctx, cfg, log, stdout)
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		if errors.Is(err, errConfigNotFound) {
			logger.Error().Msg("Cant find config or the config file is empty")
		} else {
			logger.Error().Err(err).Msg("Unhandled error")
		}
		return exitFailure
	}

	return exitSuccess
}

func findConfig(path string) (*config.SearchResult, error) {
	if path != "" {
		return config.Load(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	home, _ := os.UserHomeDir()

	return config.NewExplorer(config.ModuleName, home).Search(cwd)
}
