package interfaces

import (
	"context"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// GitClient defines the operations the analysis engine consumes from a
// local repository clone.
type GitClient interface {
	// GetRecentChanges returns the combined diff of the last n commits.
	GetRecentChanges(ctx context.Context, n int) (string, error)

	// GetRecentCommitMessages returns the subject lines of the last n
	// commits, newest first.
	GetRecentCommitMessages(ctx context.Context, n int) ([]string, error)

	// GetCommitDiffAnalysis returns metadata and diff for one commit. A
	// zero-valued CommitDetail signals that no commit data was found.
	GetCommitDiffAnalysis(ctx context.Context, hash string) (model.CommitDetail, error)
}
