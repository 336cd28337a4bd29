package domain

import (
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
)

func defaultConfig() NormalizedConfig {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return NormalizedConfig{
		BaseDir:            cwd,
		Verbose:            false,
		DefaultCompression: DefaultCompression,
		OnlyLocalAnalyze:   false,
	}
}

// NormalizeConfig applies defaults to every omitted field of config and
// converts file size limits into bytes. It expects a config that passed
// ValidateConfig; a size that does not parse is treated as no limit.
func NormalizeConfig(config Config) NormalizedConfig {
	defaults := defaultConfig()

	normalized := NormalizedConfig{}
	if config.BaseDir != nil {
		normalized.BaseDir = *config.BaseDir
	}
	if config.Verbose != nil {
		normalized.Verbose = *config.Verbose
	}
	if config.DefaultCompression != nil {
		normalized.DefaultCompression = Compression(*config.DefaultCompression)
	}
	if config.OnlyLocalAnalyze != nil {
		normalized.OnlyLocalAnalyze = *config.OnlyLocalAnalyze
	}
	if config.ReportOutput != nil {
		normalized.ReportOutput = normalizeReportOutput(config.ReportOutput)
	}

	// Only zero fields are filled, explicit values are kept. Both sides are
	// NormalizedConfig values, so Merge can only fail on a programming error.
	if err := mergo.Merge(&normalized, defaults); err != nil {
		panic(err)
	}
	if normalized.ReportOutput == nil {
		normalized.ReportOutput = []OutputEntry{}
	}

	if !filepath.IsAbs(normalized.BaseDir) {
		normalized.BaseDir = filepath.Join(defaults.BaseDir, normalized.BaseDir)
	}

	normalized.Files = make([]NormalizedFileConfig, 0, len(config.Files))
	for _, f := range config.Files {
		nf := NormalizedFileConfig{
			Path:        f.Path,
			Compression: normalized.DefaultCompression,
		}
		if f.MaxSize != nil && strings.TrimSpace(*f.MaxSize) != "" {
			if n, err := ParseSize(*f.MaxSize); err == nil {
				nf.MaxSize = &n
			}
		}
		if f.Compression != nil {
			nf.Compression = Compression(*f.Compression)
		}
		normalized.Files = append(normalized.Files, nf)
	}

	return normalized
}

func normalizeReportOutput(raw []any) []OutputEntry {
	entries := make([]OutputEntry, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			entries = append(entries, OutputEntry{Name: v})
		case []any:
			if len(v) != 2 {
				continue
			}
			name, _ := v[0].(string)
			entries = append(entries, OutputEntry{Name: name, Options: toOptions(v[1])})
		}
	}
	return entries
}

func toOptions(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if key, ok := k.(string); ok {
				out[key] = val
			}
		}
		return out
	}
	return nil
}
