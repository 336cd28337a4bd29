package outputs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/go-github/v72/github"
	"github.com/rs/zerolog"

	"go.iain.rocks/bundlemon/app/domain"
	"go.iain.rocks/bundlemon/app/infra/git"
)

const (
	GithubPRName = "github-pr"

	checkName     = "BundleMon"
	commentMarker = "<!-- bundlemon -->"
)

var ErrMissingToken = errors.New("missing GITHUB_TOKEN env var")

type githubOptions struct {
	CommitStatus bool `mapstructure:"commitStatus"`
	PRComment    bool `mapstructure:"prComment"`
	CheckRun     bool `mapstructure:"checkRun"`
}

func decodeGithubOptions(options map[string]any) (githubOptions, error) {
	opts := githubOptions{CommitStatus: true, PRComment: true}
	if options == nil {
		return opts, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(options); err != nil {
		return opts, fmt.Errorf("options: %w", err)
	}
	return opts, nil
}

// GithubPR publishes the report to GitHub as a commit status, a check run
// and a pull request comment.
type GithubPR struct {
	newClient   func(token string) *github.Client
	getenv      func(string) string
	resolveRepo func(dir string) (string, string, error)
	logger      zerolog.Logger
}

func NewGithubPR(logger zerolog.Logger) *GithubPR {
	return &GithubPR{
		newClient: func(token string) *github.Client {
			return github.NewClient(nil).WithAuthToken(token)
		},
		getenv: os.Getenv,
		resolveRepo: func(dir string) (string, string, error) {
			return git.RepositorySlug(dir, git.DefaultRemote)
		},
		logger: logger,
	}
}

func (g *GithubPR) Name() string { return GithubPRName }

func (g *GithubPR) Report(ctx context.Context, report domain.Report, options map[string]any) error {
	opts, err := decodeGithubOptions(options)
	if err != nil {
		return err
	}

	if report.GitVars == nil {
		g.logger.Warn().Str("output", GithubPRName).Msg("No git variables, skipping GitHub report")
		return nil
	}

	token := g.getenv("GITHUB_TOKEN")
	if token == "" {
		return ErrMissingToken
	}

	owner, repo, err := g.repository(report.BaseDir)
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	client := g.newClient(token)
	sha := report.GitVars.CommitSha

	if opts.CommitStatus {
		if err := createCommitStatus(ctx, client, owner, repo, sha, report); err != nil {
			return fmt.Errorf("commit status: %w", err)
		}
	}

	if opts.CheckRun {
		if err := createCheckRun(ctx, client, owner, repo, sha, report); err != nil {
			return fmt.Errorf("check run: %w", err)
		}
	}

	if opts.PRComment {
		if report.GitVars.PRNumber == "" {
			g.logger.Debug().Msg("Not a pull request, skipping comment")
			return nil
		}
		number, err := strconv.Atoi(report.GitVars.PRNumber)
		if err != nil {
			return fmt.Errorf("invalid pull request number %q: %w", report.GitVars.PRNumber, err)
		}
		if err := upsertComment(ctx, client, owner, repo, number, report); err != nil {
			return fmt.Errorf("pull request comment: %w", err)
		}
	}

	return nil
}

func (g *GithubPR) repository(baseDir string) (string, string, error) {
	if slug := g.getenv("GITHUB_REPOSITORY"); slug != "" {
		owner, repo, ok := strings.Cut(slug, "/")
		if !ok || owner == "" || repo == "" {
			return "", "", fmt.Errorf("invalid GITHUB_REPOSITORY %q", slug)
		}
		return owner, repo, nil
	}
	return g.resolveRepo(baseDir)
}

func state(report domain.Report) string {
	if report.Status == domain.StatusFail {
		return "failure"
	}
	return "success"
}

func createCommitStatus(ctx context.Context, client *github.Client, owner, repo, sha string, report domain.Report) error {
	status := &github.RepoStatus{
		State:       github.Ptr(state(report)),
		Context:     github.Ptr(checkName),
		Description: github.Ptr(summary(report)),
	}

	_, _, err := client.Repositories.CreateStatus(ctx, owner, repo, sha, status)
	return err
}

func createCheckRun(ctx context.Context, client *github.Client, owner, repo, sha string, report domain.Report) error {
	_, _, err := client.Checks.CreateCheckRun(ctx, owner, repo, github.CreateCheckRunOptions{
		Name:       checkName,
		HeadSHA:    sha,
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr(state(report)),
		Output: &github.CheckRunOutput{
			Title:   github.Ptr(summary(report)),
			Summary: github.Ptr(reportTable(report).RenderMarkdown()),
		},
	})
	return err
}

func commentBody(report domain.Report) string {
	var b strings.Builder
	b.WriteString(commentMarker)
	b.WriteString("\n## BundleMon\n\n")
	b.WriteString(reportTable(report).RenderMarkdown())
	b.WriteString("\n\n")
	b.WriteString(summary(report))
	b.WriteString("\n")
	return b.String()
}

// upsertComment edits the comment left by a previous run, or creates one.
func upsertComment(ctx context.Context, client *github.Client, owner, repo string, number int, report domain.Report) error {
	body := &github.IssueComment{Body: github.Ptr(commentBody(report))}

	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100, Page: 1}}
	for {
		comments, resp, err := client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if strings.Contains(c.GetBody(), commentMarker) {
				_, _, err := client.Issues.EditComment(ctx, owner, repo, c.GetID(), body)
				return err
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	_, _, err := client.Issues.CreateComment(ctx, owner, repo, number, body)
	return err
}
