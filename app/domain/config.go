package domain

// Compression names the algorithm applied to a file before its size is taken.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionBrotli Compression = "brotli"

	DefaultCompression = CompressionGzip
)

// Compressions lists every supported compression, in display order.
var Compressions = []Compression{CompressionNone, CompressionGzip, CompressionBrotli}

func IsCompression(name string) bool {
	for _, c := range Compressions {
		if string(c) == name {
			return true
		}
	}
	return false
}

// Config is the user supplied configuration as decoded from the config file.
// Optional scalars are pointers so an explicit zero value can be told apart
// from an omitted one.
type Config struct {
	BaseDir            *string      `koanf:"baseDir"`
	Verbose            *bool        `koanf:"verbose"`
	DefaultCompression *string      `koanf:"defaultCompression"`
	OnlyLocalAnalyze   *bool        `koanf:"onlyLocalAnalyze"`
	ReportOutput       []any        `koanf:"reportOutput"`
	Files              []FileConfig `koanf:"files"`
}

type FileConfig struct {
	Path        string  `koanf:"path"`
	MaxSize     *string `koanf:"maxSize"`
	Compression *string `koanf:"compression"`
}

// NormalizedConfig is Config with every default applied and sizes in bytes.
type NormalizedConfig struct {
	BaseDir            string
	Verbose            bool
	DefaultCompression Compression
	OnlyLocalAnalyze   bool
	ReportOutput       []OutputEntry
	Files              []NormalizedFileConfig
}

type NormalizedFileConfig struct {
	Path string
	// MaxSize is nil when the file has no limit.
	MaxSize     *int64
	Compression Compression
}

// OutputEntry selects a registered output by name, with optional settings.
type OutputEntry struct {
	Name    string
	Options map[string]any
}
