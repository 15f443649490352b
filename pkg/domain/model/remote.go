package model

import "time"

// RemoteRepository is upstream metadata fetched from the hosting service.
type RemoteRepository struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"open_issues"`
	Archived      bool      `json:"archived"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName returns the owner/name form.
func (r RemoteRepository) FullName() string {
	return r.Owner + "/" + r.Name
}
