package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub API client. An empty token gives an
// unauthenticated client, which is enough for public repository metadata
// at reduced rate limits.
func NewClient(ctx context.Context, token string) interfaces.GitHubClient {
	var httpClient *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, src)
	}

	return &client{
		githubClient: github.NewClient(httpClient),
	}
}

// GetRepositoryInfo fetches metadata for one repository.
func (c *client) GetRepositoryInfo(ctx context.Context, owner, name string) (model.RemoteRepository, error) {
	repo, _, err := c.githubClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return model.RemoteRepository{}, goerr.Wrap(err, "failed to get repository info",
			goerr.V("owner", owner), goerr.V("repo", name))
	}

	return model.RemoteRepository{
		Owner:         owner,
		Name:          name,
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Archived:      repo.GetArchived(),
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}, nil
}

// ParseRepoURL extracts owner and repository name from common GitHub URL
// and shorthand forms: https URLs, ssh URLs, and plain "owner/repo".
func ParseRepoURL(url string) (owner, name string, err error) {
	s := strings.TrimSpace(url)
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimSuffix(s, "/")

	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		s = strings.TrimPrefix(s, "git@github.com:")
	case strings.Contains(s, "github.com/"):
		_, s, _ = strings.Cut(s, "github.com/")
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", goerr.New("invalid repository URL", goerr.V("url", url))
	}
	return parts[0], parts[1], nil
}
