package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/interfaces"
	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

type client struct {
	repo *gogit.Repository
	path string
}

// Open opens a local repository working copy.
func Open(path string) (interfaces.GitClient, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("path", path))
	}
	return &client{repo: repo, path: path}, nil
}

// GetRecentChanges returns the concatenated diffs of the most recent
// numCommits commits, newest first.
func (c *client) GetRecentChanges(ctx context.Context, numCommits int) (string, error) {
	commits, err := c.recentCommits(ctx, numCommits)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, commit := range commits {
		patch, err := c.commitPatch(ctx, commit)
		if err != nil {
			return "", err
		}
		sb.WriteString(patch)
	}
	return sb.String(), nil
}

// GetRecentCommitMessages returns the subject lines of the most recent
// numCommits commits, newest first.
func (c *client) GetRecentCommitMessages(ctx context.Context, numCommits int) ([]string, error) {
	commits, err := c.recentCommits(ctx, numCommits)
	if err != nil {
		return nil, err
	}

	messages := make([]string, 0, len(commits))
	for _, commit := range commits {
		messages = append(messages, subjectLine(commit.Message))
	}
	return messages, nil
}

// GetCommitDiffAnalysis resolves a commit (full or abbreviated hash) and
// returns its diff along with file and line statistics.
func (c *client) GetCommitDiffAnalysis(ctx context.Context, hash string) (model.CommitDetail, error) {
	rev, err := c.repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return model.CommitDetail{}, goerr.Wrap(err, "failed to resolve commit",
			goerr.V("path", c.path), goerr.V("commit", hash))
	}

	commit, err := c.repo.CommitObject(*rev)
	if err != nil {
		return model.CommitDetail{}, goerr.Wrap(err, "failed to read commit object",
			goerr.V("path", c.path), goerr.V("commit", rev.String()))
	}

	diff, err := c.commitPatch(ctx, commit)
	if err != nil {
		return model.CommitDetail{}, err
	}

	detail := model.CommitDetail{
		Hash:        commit.Hash.String(),
		Author:      commit.Author.Name,
		Date:        commit.Author.When,
		Message:     strings.TrimSpace(commit.Message),
		DiffContent: diff,
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				detail.FilesChanged = append(detail.FilesChanged, strings.TrimPrefix(fields[3], "b/"))
			}
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			detail.Insertions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			detail.Deletions++
		}
	}

	return detail, nil
}

func (c *client) recentCommits(ctx context.Context, numCommits int) ([]*object.Commit, error) {
	iter, err := c.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read commit log", goerr.V("path", c.path))
	}
	defer iter.Close()

	var commits []*object.Commit
	for len(commits) < numCommits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commit, err := iter.Next()
		if err != nil {
			break // end of history
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// commitPatch renders the diff between a commit and its first parent. A
// root commit is diffed against the empty tree.
func (c *client) commitPatch(ctx context.Context, commit *object.Commit) (string, error) {
	tree, err := commit.Tree()
	if err != nil {
		return "", goerr.Wrap(err, "failed to read commit tree", goerr.V("commit", commit.Hash.String()))
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read parent commit", goerr.V("commit", commit.Hash.String()))
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", goerr.Wrap(err, "failed to read parent tree", goerr.V("commit", commit.Hash.String()))
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", goerr.Wrap(err, "failed to diff trees", goerr.V("commit", commit.Hash.String()))
	}

	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to render patch", goerr.V("commit", commit.Hash.String()))
	}
	return patch.String(), nil
}

func subjectLine(message string) string {
	if idx := strings.Index(message, "\n"); idx >= 0 {
		message = message[:idx]
	}
	return strings.TrimSpace(message)
}
