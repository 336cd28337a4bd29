package domain

import (
	"fmt"
	"strings"
)

const configRoot = "bundlemon"

// FieldError describes one invalid field of a Config.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError collects every FieldError found in a Config.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.String())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// ValidationResult is the outcome of ValidateConfig. When Valid is true,
// Config holds the validated configuration and Errors is empty.
type ValidationResult struct {
	Valid  bool
	Config Config
	Errors []FieldError
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

type validator struct {
	errs []FieldError
}

func (v *validator) fail(path, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Path: configRoot + path, Message: fmt.Sprintf(format, args...)})
}

// ValidateConfig checks config against the bundlemon schema and reports every
// problem it finds.
func ValidateConfig(config Config) ValidationResult {
	v := &validator{}

	if config.BaseDir != nil && strings.TrimSpace(*config.BaseDir) == "" {
		v.fail(".baseDir", "must not be empty")
	}
	if config.DefaultCompression != nil && !IsCompression(*config.DefaultCompression) {
		v.fail(".defaultCompression", "must be one of %s", compressionList())
	}

	for i, item := range config.ReportOutput {
		path := fmt.Sprintf(".reportOutput[%d]", i)
		switch out := item.(type) {
		case string:
			if out == "" {
				v.fail(path, "must not be empty")
			}
		case []any:
			if len(out) != 2 {
				v.fail(path, "must have exactly 2 items, got %d", len(out))
				continue
			}
			if name, ok := out[0].(string); !ok || name == "" {
				v.fail(path+"[0]", "must be a non-empty output name")
			}
			if out[1] != nil && toOptions(out[1]) == nil {
				v.fail(path+"[1]", "must be an object")
			}
		default:
			v.fail(path, "must be a string or a [name, options] pair")
		}
	}

	if config.Files == nil {
		v.fail(".files", "is a required field")
	} else if len(config.Files) == 0 {
		v.fail(".files", "must have at least 1 items")
	}
	for i, f := range config.Files {
		path := fmt.Sprintf(".files[%d]", i)
		if strings.TrimSpace(f.Path) == "" {
			v.fail(path+".path", "is a required field")
		}
		// An empty maxSize means no limit.
		if f.MaxSize != nil && strings.TrimSpace(*f.MaxSize) != "" {
			if _, err := ParseSize(*f.MaxSize); err != nil {
				v.fail(path+".maxSize", "%q not a valid max size", *f.MaxSize)
			}
		}
		if f.Compression != nil && !IsCompression(*f.Compression) {
			v.fail(path+".compression", "must be one of %s", compressionList())
		}
	}

	if len(v.errs) > 0 {
		return ValidationResult{Errors: v.errs}
	}
	return ValidationResult{Valid: true, Config: config}
}

func compressionList() string {
	names := make([]string, 0, len(Compressions))
	for _, c := range Compressions {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
