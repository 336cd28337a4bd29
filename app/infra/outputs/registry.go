package outputs

import (
	"io"

	"github.com/rs/zerolog"

	"go.iain.rocks/bundlemon/app/domain"
)

// NewRegistry returns the registry of every output bundlemon ships with.
func NewRegistry(w io.Writer, logger zerolog.Logger) *domain.Registry {
	return domain.NewRegistry(
		NewConsole(w),
		NewGithubPR(logger),
	)
}
