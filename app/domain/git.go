package domain

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// GitVars is the git context of the current CI run.
type GitVars struct {
	Branch     string
	CommitSha  string
	BaseBranch string
	PRNumber   string
}

// ciProvider maps one CI service's environment onto GitVars fields.
type ciProvider struct {
	name   string
	detect func(getenv func(string) string) bool
	read   func(getenv func(string) string) GitVars
}

var ciProviders = []ciProvider{
	{
		name:   "github-actions",
		detect: func(env func(string) string) bool { return env("GITHUB_ACTIONS") == "true" },
		read: func(env func(string) string) GitVars {
			branch := env("GITHUB_HEAD_REF")
			if branch == "" {
				branch = strings.TrimPrefix(env("GITHUB_REF"), "refs/heads/")
			}
			pr := ""
			if ref := env("GITHUB_REF"); strings.HasPrefix(ref, "refs/pull/") {
				pr = strings.SplitN(strings.TrimPrefix(ref, "refs/pull/"), "/", 2)[0]
			}
			return GitVars{
				Branch:     branch,
				CommitSha:  env("GITHUB_SHA"),
				BaseBranch: env("GITHUB_BASE_REF"),
				PRNumber:   pr,
			}
		},
	},
	{
		name:   "gitlab",
		detect: func(env func(string) string) bool { return env("GITLAB_CI") != "" },
		read: func(env func(string) string) GitVars {
			branch := env("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME")
			if branch == "" {
				branch = env("CI_COMMIT_REF_NAME")
			}
			return GitVars{
				Branch:     branch,
				CommitSha:  env("CI_COMMIT_SHA"),
				BaseBranch: env("CI_MERGE_REQUEST_TARGET_BRANCH_NAME"),
				PRNumber:   env("CI_MERGE_REQUEST_IID"),
			}
		},
	},
	{
		name:   "circleci",
		detect: func(env func(string) string) bool { return env("CIRCLECI") == "true" },
		read: func(env func(string) string) GitVars {
			return GitVars{
				Branch:    env("CIRCLE_BRANCH"),
				CommitSha: env("CIRCLE_SHA1"),
				PRNumber:  env("CIRCLE_PR_NUMBER"),
			}
		},
	},
	{
		name:   "travis",
		detect: func(env func(string) string) bool { return env("TRAVIS") == "true" },
		read: func(env func(string) string) GitVars {
			pr := env("TRAVIS_PULL_REQUEST")
			if pr == "" || pr == "false" {
				return GitVars{Branch: env("TRAVIS_BRANCH"), CommitSha: env("TRAVIS_COMMIT")}
			}
			return GitVars{
				Branch:     env("TRAVIS_PULL_REQUEST_BRANCH"),
				CommitSha:  env("TRAVIS_PULL_REQUEST_SHA"),
				BaseBranch: env("TRAVIS_BRANCH"),
				PRNumber:   pr,
			}
		},
	},
}

// readCIVars resolves the CI variables of the detected provider. Explicit
// CI_* variables override whatever the provider reports.
func readCIVars(getenv func(string) string) GitVars {
	vars := GitVars{}
	for _, p := range ciProviders {
		if p.detect(getenv) {
			vars = p.read(getenv)
			break
		}
	}

	override := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	override(&vars.Branch, "CI_BRANCH")
	override(&vars.CommitSha, "CI_COMMIT_SHA")
	override(&vars.BaseBranch, "CI_TARGET_BRANCH")
	override(&vars.PRNumber, "CI_PR_NUMBER")

	return vars
}

// GetGitVars reads the git context from the CI environment. It returns nil,
// after logging which variable is missing, when the branch or the commit sha
// cannot be found.
func GetGitVars(logger zerolog.Logger) *GitVars {
	vars := readCIVars(os.Getenv)

	if vars.Branch == "" {
		logger.Error().Msg(`Missing "CI_BRANCH" env var`)
		return nil
	}
	if vars.CommitSha == "" {
		logger.Error().Msg(`Missing "CI_COMMIT_SHA" env var`)
		return nil
	}

	return &vars
}
