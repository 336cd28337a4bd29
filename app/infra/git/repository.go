package git

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v6"
)

const DefaultRemote = "origin"

// RepositorySlug returns the owner and name of the repository behind the
// given remote of the git repository containing dir.
func RepositorySlug(dir, remote string) (string, string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("open repository: %w", err)
	}

	r, err := repo.Remote(remote)
	if err != nil {
		return "", "", fmt.Errorf("remote %s: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("remote %s has no url", remote)
	}

	return ParseSlug(urls[0])
}

// ParseSlug extracts owner and repository name from a clone URL in https,
// ssh or scp-like ("git@host:owner/repo.git") form.
func ParseSlug(remoteURL string) (string, string, error) {
	path := ""
	if u, err := url.Parse(remoteURL); err == nil && u.Scheme != "" && u.Host != "" {
		path = u.Path
	} else if at := strings.Index(remoteURL, ":"); at >= 0 {
		path = remoteURL[at+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot parse repository from %q", remoteURL)
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}
