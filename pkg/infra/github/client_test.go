package github_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/driftwatch/driftwatch/pkg/infra/github"
)

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		owner string
		repo  string
		isErr bool
	}{
		{
			name:  "https URL",
			url:   "https://github.com/golang/go",
			owner: "golang",
			repo:  "go",
		},
		{
			name:  "https URL with .git suffix",
			url:   "https://github.com/golang/go.git",
			owner: "golang",
			repo:  "go",
		},
		{
			name:  "https URL with trailing slash",
			url:   "https://github.com/golang/go/",
			owner: "golang",
			repo:  "go",
		},
		{
			name:  "ssh URL",
			url:   "git@github.com:golang/go.git",
			owner: "golang",
			repo:  "go",
		},
		{
			name:  "shorthand",
			url:   "golang/go",
			owner: "golang",
			repo:  "go",
		},
		{
			name:  "empty",
			url:   "",
			isErr: true,
		},
		{
			name:  "missing repo name",
			url:   "https://github.com/golang",
			isErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, err := github.ParseRepoURL(tc.url)
			if tc.isErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, owner, tc.owner)
			gt.Equal(t, repo, tc.repo)
		})
	}
}
