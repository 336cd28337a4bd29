package outputs

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.iain.rocks/bundlemon/app/domain"
)

const ConsoleName = "console"

// Console prints the report as a table.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return ConsoleName }

func (c *Console) Report(_ context.Context, report domain.Report, _ map[string]any) error {
	t := reportTable(report)
	t.SetStyle(table.StyleLight)

	if _, err := fmt.Fprintln(c.w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.w, summary(report))
	return err
}

func reportTable(report domain.Report) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Status", "File", "Path", "Size", "Limit", "Compression"})
	for _, f := range report.Files {
		t.AppendRow(table.Row{f.Status, f.Pattern, f.Path, domain.FormatSize(f.Size), formatLimit(f.MaxSize), f.Compression})
	}
	return t
}

func formatLimit(maxSize *int64) string {
	if maxSize == nil {
		return "-"
	}
	return domain.FormatSize(*maxSize)
}

func summary(report domain.Report) string {
	failed := 0
	for _, f := range report.Files {
		if f.Status == domain.StatusFail {
			failed++
		}
	}
	if report.Status == domain.StatusFail {
		return fmt.Sprintf("%d of %d files exceeded their limit", failed, len(report.Files))
	}
	return fmt.Sprintf("All %d files passed", len(report.Files))
}
