package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"go.iain.rocks/bundlemon/app/domain"
)

// HashPlaceholder marks the content hash part of a file name, e.g.
// "main.<hash>.js".
const HashPlaceholder = "<hash>"

// Analyzer measures files on the local disk.
type Analyzer struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

func (a *Analyzer) Analyze(ctx context.Context, config domain.NormalizedConfig) ([]domain.FileReport, error) {
	reports := []domain.FileReport{}

	for _, fc := range config.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := matchFiles(config.BaseDir, fc.Path)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", fc.Path, err)
		}
		if len(files) == 0 {
			a.logger.Warn().Str("path", fc.Path).Msg("No files found")
			continue
		}

		for _, file := range files {
			size, err := compressedSize(file, fc.Compression)
			if err != nil {
				return nil, fmt.Errorf("size %s: %w", file, err)
			}

			rel, err := filepath.Rel(config.BaseDir, file)
			if err != nil {
				rel = file
			}

			a.logger.Debug().
				Str("file", rel).
				Int64("size", size).
				Str("compression", string(fc.Compression)).
				Msg("Measured file")

			reports = append(reports, domain.FileReport{
				Pattern:     fc.Path,
				Path:        filepath.ToSlash(rel),
				Size:        size,
				MaxSize:     fc.MaxSize,
				Compression: fc.Compression,
			})
		}
	}

	return reports, nil
}

// matchFiles expands pattern relative to baseDir. "**" matches any number of
// directories. Matched directories are expanded to every file below them.
func matchFiles(baseDir, pattern string) ([]string, error) {
	glob := strings.ReplaceAll(pattern, HashPlaceholder, "*")
	if !filepath.IsAbs(glob) {
		glob = filepath.Join(baseDir, glob)
	}

	matches, err := doublestar.FilepathGlob(glob)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	output := []string{}
	for _, m := range matches {
		files, err := getAllFilenames(m)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				output = append(output, f)
			}
		}
	}
	sort.Strings(output)

	return output, nil
}

func getAllFilenames(filename string) ([]string, error) {
	output := []string{}

	stat, err := os.Stat(filename)
	if err != nil {
		return []string{}, err
	}

	if !stat.IsDir() {
		return append(output, filename), nil
	}

	files, err := os.ReadDir(filename)
	if err != nil {
		return []string{}, err
	}

	for _, file := range files {
		fileLocation := filepath.Join(filename, file.Name())
		if file.IsDir() {
			subFiles, err := getAllFilenames(fileLocation)
			if err != nil {
				return []string{}, err
			}
			output = append(output, subFiles...)
		} else {
			output = append(output, fileLocation)
		}
	}

	return output, nil
}
