package model

// Severity grades the impact of a finding. The vocabulary is shared by all
// finding types; "critical" is only produced for security updates.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// UnknownComponent is the sentinel used when a detector cannot attribute a
// finding to a specific file.
const UnknownComponent = "unknown"

// BreakingChange represents a detected breaking change. Kind is an open
// string vocabulary (e.g. "explicit_breaking_change", "database_change"),
// not a closed enum, so new heuristics can add kinds without touching
// consumers.
type BreakingChange struct {
	Kind               string   `json:"type"`
	Description        string   `json:"description"`
	Severity           Severity `json:"severity"`
	AffectedComponents []string `json:"affected_components"`
	MigrationGuidance  string   `json:"migration_guidance,omitempty"`
}

// Deprecation represents a detected deprecation notice.
type Deprecation struct {
	Kind                  string   `json:"type"`
	Description           string   `json:"description"`
	Severity              Severity `json:"severity"`
	ReplacementSuggestion string   `json:"replacement_suggestion,omitempty"`
	RemovalDate           string   `json:"removal_date,omitempty"`
	AffectedComponents    []string `json:"affected_components"`
	MigrationPath         string   `json:"migration_path,omitempty"`
}

// SecurityUpdate represents a detected security-relevant change.
type SecurityUpdate struct {
	Kind                string   `json:"type"`
	Description         string   `json:"description"`
	Severity            Severity `json:"severity"`
	CVEID               string   `json:"cve_id,omitempty"`
	AffectedComponents  []string `json:"affected_components"`
	RemediationGuidance string   `json:"remediation_guidance,omitempty"`
}
