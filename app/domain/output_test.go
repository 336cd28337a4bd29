package domain

import (
	"context"
	"testing"
)

type namedOutput string

func (n namedOutput) Name() string { return string(n) }

func (n namedOutput) Report(context.Context, Report, map[string]any) error { return nil }

func TestRegistry_AllIsStable(t *testing.T) {
	r := NewRegistry(namedOutput("console"), namedOutput("github-pr"))

	first := r.All()
	second := r.All()
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 outputs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("output %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
	if first[0].Name() != "console" || first[1].Name() != "github-pr" {
		t.Fatalf("unexpected order: %s, %s", first[0].Name(), first[1].Name())
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(namedOutput("console"))
	if o, ok := r.Get("console"); !ok || o.Name() != "console" {
		t.Fatalf("expected to find console output")
	}
	if _, ok := r.Get("slack"); ok {
		t.Fatalf("did not expect to find slack output")
	}
}

func TestNewReport_Status(t *testing.T) {
	limit := int64(100)
	r := newReport("/tmp", []FileReport{
		{Path: "a.js", Size: 100, MaxSize: &limit},
		{Path: "b.js", Size: 101, MaxSize: &limit},
	}, nil)
	if r.Status != StatusFail {
		t.Fatalf("expected report to fail, got %s", r.Status)
	}
	if r.Files[0].Status != StatusPass || r.Files[1].Status != StatusFail {
		t.Fatalf("unexpected file statuses: %+v", r.Files)
	}

	if empty := newReport("/tmp", nil, nil); empty.Status != StatusPass {
		t.Fatalf("expected empty report to pass, got %s", empty.Status)
	}
}

func TestParseSize(t *testing.T) {
	if n, err := ParseSize(" 10kb "); err != nil || n != 10240 {
		t.Fatalf("expected 10240, got %d (%v)", n, err)
	}
	for _, bad := range []string{"", "abc", "-1kb", "10 parsecs"} {
		if _, err := ParseSize(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
