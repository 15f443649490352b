package git_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/gt"

	"github.com/driftwatch/driftwatch/pkg/infra/git"
)

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, message string) string {
	t.Helper()

	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))

	wt := gt.R1(repo.Worktree()).NoError(t)
	gt.R1(wt.Add(name)).NoError(t)

	hash := gt.R1(wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})).NoError(t)

	return hash.String()
}

func TestOpen(t *testing.T) {
	t.Run("missing repository is an error", func(t *testing.T) {
		_, err := git.Open(t.TempDir())
		gt.Error(t, err)
	})
}

func TestClient(t *testing.T) {
	dir := t.TempDir()
	repo := gt.R1(gogit.PlainInit(dir, false)).NoError(t)

	first := commitFile(t, repo, dir, "main.go", "package main\n", "feat: initial commit")
	commitFile(t, repo, dir, "main.go", "package main\n\nfunc main() {}\n", "fix: add entrypoint")

	client := gt.R1(git.Open(dir)).NoError(t)
	ctx := context.Background()

	t.Run("recent commit messages newest first", func(t *testing.T) {
		messages := gt.R1(client.GetRecentCommitMessages(ctx, 10)).NoError(t)
		gt.A(t, messages).Length(2)
		gt.Equal(t, messages[0], "fix: add entrypoint")
		gt.Equal(t, messages[1], "feat: initial commit")
	})

	t.Run("limit caps returned messages", func(t *testing.T) {
		messages := gt.R1(client.GetRecentCommitMessages(ctx, 1)).NoError(t)
		gt.A(t, messages).Length(1)
		gt.Equal(t, messages[0], "fix: add entrypoint")
	})

	t.Run("recent changes include both commits", func(t *testing.T) {
		diff := gt.R1(client.GetRecentChanges(ctx, 10)).NoError(t)
		gt.True(t, strings.Contains(diff, "main.go"))
		gt.True(t, strings.Contains(diff, "func main()"))
	})

	t.Run("commit analysis for root commit", func(t *testing.T) {
		detail := gt.R1(client.GetCommitDiffAnalysis(ctx, first)).NoError(t)
		gt.Equal(t, detail.Hash, first)
		gt.Equal(t, detail.Message, "feat: initial commit")
		gt.Equal(t, detail.Author, "tester")
		gt.A(t, detail.FilesChanged).Length(1)
		gt.Equal(t, detail.FilesChanged[0], "main.go")
		gt.True(t, detail.Insertions > 0)
	})

	t.Run("abbreviated hash resolves", func(t *testing.T) {
		detail := gt.R1(client.GetCommitDiffAnalysis(ctx, first[:8])).NoError(t)
		gt.Equal(t, detail.Hash, first)
	})

	t.Run("unknown commit is an error", func(t *testing.T) {
		_, err := client.GetCommitDiffAnalysis(ctx, "0000000000000000000000000000000000000000")
		gt.Error(t, err)
	})
}
