package interfaces

import (
	"context"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// GitHubClient fetches upstream repository metadata.
type GitHubClient interface {
	GetRepositoryInfo(ctx context.Context, owner, name string) (model.RemoteRepository, error)
}
