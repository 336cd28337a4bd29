package outputs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v72/github"
	"github.com/rs/zerolog"

	"go.iain.rocks/bundlemon/app/domain"
)

type apiCall struct {
	method string
	path   string
	body   map[string]any
}

type fakeGithub struct {
	mu       sync.Mutex
	calls    []apiCall
	comments string
}

func (f *fakeGithub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Errorf("bad request body: %v", err)
			}
		}
		f.mu.Lock()
		f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, body: body})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/comments"):
			comments := f.comments
			if comments == "" {
				comments = "[]"
			}
			_, _ = w.Write([]byte(comments))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 1}`))
		case r.Method == http.MethodPatch:
			_, _ = w.Write([]byte(`{"id": 99}`))
		default:
			http.NotFound(w, r)
		}
	}
}

func (f *fakeGithub) find(method, path string) *apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.calls {
		if f.calls[i].method == method && f.calls[i].path == path {
			return &f.calls[i]
		}
	}
	return nil
}

func newTestGithubPR(t *testing.T, fake *fakeGithub, env map[string]string) *GithubPR {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	return &GithubPR{
		newClient: func(token string) *github.Client {
			client := github.NewClient(srv.Client()).WithAuthToken(token)
			client.BaseURL = base
			return client
		},
		getenv: func(key string) string { return env[key] },
		resolveRepo: func(string) (string, string, error) {
			return "", "", errors.New("no repository")
		},
		logger: zerolog.Nop(),
	}
}

func prReport(status domain.Status, pr string) domain.Report {
	limit := int64(1024)
	return domain.Report{
		BaseDir: "/tmp/web",
		Status:  status,
		Files: []domain.FileReport{
			{Pattern: "dist/app.js", Path: "dist/app.js", Size: 2048, MaxSize: &limit, Compression: domain.CompressionGzip, Status: status},
		},
		GitVars: &domain.GitVars{Branch: "feature", CommitSha: "abc123", BaseBranch: "main", PRNumber: pr},
	}
}

var testEnv = map[string]string{"GITHUB_TOKEN": "token", "GITHUB_REPOSITORY": "my-org/web"}

func TestGithubPR_DefaultsCreateStatusAndComment(t *testing.T) {
	fake := &fakeGithub{}
	g := newTestGithubPR(t, fake, testEnv)

	if err := g.Report(context.Background(), prReport(domain.StatusFail, "5"), nil); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	status := fake.find(http.MethodPost, "/repos/my-org/web/statuses/abc123")
	if status == nil {
		t.Fatalf("expected a commit status, calls: %+v", fake.calls)
	}
	if status.body["state"] != "failure" || status.body["context"] != "BundleMon" {
		t.Fatalf("unexpected status body: %v", status.body)
	}

	comment := fake.find(http.MethodPost, "/repos/my-org/web/issues/5/comments")
	if comment == nil {
		t.Fatalf("expected a new PR comment, calls: %+v", fake.calls)
	}
	body, _ := comment.body["body"].(string)
	if !strings.HasPrefix(body, commentMarker) || !strings.Contains(body, "dist/app.js") {
		t.Fatalf("unexpected comment body: %q", body)
	}

	if fake.find(http.MethodPost, "/repos/my-org/web/check-runs") != nil {
		t.Fatalf("did not expect a check run by default")
	}
}

func TestGithubPR_EditsExistingComment(t *testing.T) {
	fake := &fakeGithub{comments: `[{"id": 7, "body": "lgtm"}, {"id": 99, "body": "<!-- bundlemon -->\nold"}]`}
	g := newTestGithubPR(t, fake, testEnv)

	opts := map[string]any{"commitStatus": false}
	if err := g.Report(context.Background(), prReport(domain.StatusPass, "5"), opts); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if fake.find(http.MethodPatch, "/repos/my-org/web/issues/comments/99") == nil {
		t.Fatalf("expected comment 99 to be edited, calls: %+v", fake.calls)
	}
	if fake.find(http.MethodPost, "/repos/my-org/web/issues/5/comments") != nil {
		t.Fatalf("did not expect a new comment")
	}
	if fake.find(http.MethodPost, "/repos/my-org/web/statuses/abc123") != nil {
		t.Fatalf("did not expect a commit status when disabled")
	}
}

func TestGithubPR_CheckRun(t *testing.T) {
	fake := &fakeGithub{}
	g := newTestGithubPR(t, fake, testEnv)

	opts := map[string]any{"checkRun": true, "commitStatus": false, "prComment": false}
	if err := g.Report(context.Background(), prReport(domain.StatusPass, ""), opts); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	run := fake.find(http.MethodPost, "/repos/my-org/web/check-runs")
	if run == nil {
		t.Fatalf("expected a check run, calls: %+v", fake.calls)
	}
	if run.body["head_sha"] != "abc123" || run.body["conclusion"] != "success" {
		t.Fatalf("unexpected check run body: %v", run.body)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected a single API call, got %+v", fake.calls)
	}
}

func TestGithubPR_NoPullRequestSkipsComment(t *testing.T) {
	fake := &fakeGithub{}
	g := newTestGithubPR(t, fake, testEnv)

	if err := g.Report(context.Background(), prReport(domain.StatusPass, ""), nil); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0].path != "/repos/my-org/web/statuses/abc123" {
		t.Fatalf("expected only the commit status, got %+v", fake.calls)
	}
}

func TestGithubPR_SkipsWithoutGitVars(t *testing.T) {
	fake := &fakeGithub{}
	g := newTestGithubPR(t, fake, map[string]string{})

	report := prReport(domain.StatusPass, "5")
	report.GitVars = nil
	if err := g.Report(context.Background(), report, nil); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no API calls, got %+v", fake.calls)
	}
}

func TestGithubPR_MissingToken(t *testing.T) {
	g := newTestGithubPR(t, &fakeGithub{}, map[string]string{"GITHUB_REPOSITORY": "my-org/web"})

	err := g.Report(context.Background(), prReport(domain.StatusPass, "5"), nil)
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestGithubPR_FallsBackToGitRemote(t *testing.T) {
	fake := &fakeGithub{}
	g := newTestGithubPR(t, fake, map[string]string{"GITHUB_TOKEN": "token"})
	var gotDir string
	g.resolveRepo = func(dir string) (string, string, error) {
		gotDir = dir
		return "other-org", "api", nil
	}

	if err := g.Report(context.Background(), prReport(domain.StatusPass, ""), nil); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if gotDir != "/tmp/web" {
		t.Fatalf("expected repository lookup in base dir, got %q", gotDir)
	}
	if fake.find(http.MethodPost, "/repos/other-org/api/statuses/abc123") == nil {
		t.Fatalf("expected status on other-org/api, calls: %+v", fake.calls)
	}
}

func TestGithubPR_InvalidOptions(t *testing.T) {
	g := newTestGithubPR(t, &fakeGithub{}, testEnv)

	err := g.Report(context.Background(), prReport(domain.StatusPass, "5"), map[string]any{"slack": true})
	if err == nil {
		t.Fatalf("expected an error for an unknown option")
	}
}

func TestGithubPR_InvalidPullRequestNumber(t *testing.T) {
	g := newTestGithubPR(t, &fakeGithub{}, testEnv)

	err := g.Report(context.Background(), prReport(domain.StatusPass, "abc"), map[string]any{"commitStatus": false})
	if err == nil {
		t.Fatalf("expected an error for a non numeric PR number")
	}
}
