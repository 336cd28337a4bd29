package domain

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

// ParseSize converts a human readable size such as "10kb" or "1.5 MB" into a
// byte count. Units are binary, so "1kb" is 1024 bytes.
func ParseSize(size string) (int64, error) {
	n, err := units.RAMInBytes(strings.TrimSpace(size))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size: %q", size)
	}
	return n, nil
}

// FormatSize renders a byte count for reports.
func FormatSize(n int64) string {
	return units.BytesSize(float64(n))
}
