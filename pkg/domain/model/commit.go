package model

import "time"

// CommitDetail holds the metadata and diff of a single commit, as returned
// by the git collaborator. A zero-valued CommitDetail (empty Hash) signals
// "no such commit data".
type CommitDetail struct {
	Hash         string    `json:"commit_hash"`
	Author       string    `json:"author"`
	Date         time.Time `json:"date"`
	Message      string    `json:"message"`
	DiffContent  string    `json:"diff_content"`
	FilesChanged []string  `json:"files_changed"`
	Insertions   int       `json:"insertions"`
	Deletions    int       `json:"deletions"`
}

// IsZero reports whether no commit data was found.
func (c CommitDetail) IsZero() bool {
	return c.Hash == ""
}

// CommitCategory buckets a commit message by its leading conventional tag
// or keyword.
type CommitCategory string

const (
	CategoryFeature  CommitCategory = "feature"
	CategoryFix      CommitCategory = "fix"
	CategoryDocs     CommitCategory = "docs"
	CategoryRefactor CommitCategory = "refactor"
	CategoryTest     CommitCategory = "test"
	CategoryChore    CommitCategory = "chore"
	CategoryOther    CommitCategory = "other"
)

// CommitSummary is a lightweight digest of recent commits produced without
// invoking a provider.
type CommitSummary struct {
	Repository     string                 `json:"repository"`
	TotalCommits   int                    `json:"total_commits"`
	CommitMessages []string               `json:"commit_messages"`
	HasChanges     bool                   `json:"has_changes"`
	ChangeSummary  string                 `json:"change_summary"`
	LastCommit     string                 `json:"last_commit,omitempty"`
	CommitTypes    map[CommitCategory]int `json:"commit_types"`
}

// TokenUsage carries provider token counters for cost accounting.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add accumulates another usage sample.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
