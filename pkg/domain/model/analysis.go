package model

// AnalysisRequest carries one unit of change into the analysis pipeline.
// It is immutable once constructed; one request per analysis call.
type AnalysisRequest struct {
	Repository     Repository
	DiffContent    string
	CommitMessages []string
	CustomPrompt   string
}

// ChangeAnalysis is the merged result of heuristic detection and LLM
// analysis. The plain string lists reflect the model's own phrasing; the
// Detailed* fields carry the structured detector findings. All list fields
// may be empty: an analysis with no findings and no summary is a valid
// "no signal" result, never an error.
type ChangeAnalysis struct {
	Summary         string   `json:"summary"`
	BreakingChanges []string `json:"breaking_changes"`
	NewFeatures     []string `json:"new_features"`
	BugFixes        []string `json:"bug_fixes"`
	SecurityUpdates []string `json:"security_updates"`
	Deprecations    []string `json:"deprecations"`
	Recommendations []string `json:"recommendations"`

	// Confidence is the analysis's self-reported reliability in [0,1].
	// It is not statistically calibrated.
	Confidence float64 `json:"confidence"`

	DetailedBreakingChanges []BreakingChange `json:"detailed_breaking_changes,omitempty"`
	DetailedSecurityUpdates []SecurityUpdate `json:"detailed_security_updates,omitempty"`
	DetailedDeprecations    []Deprecation    `json:"detailed_deprecations,omitempty"`
}

// DetectionReport is the result of pattern-only analysis without an LLM.
type DetectionReport struct {
	Repository        string           `json:"repository"`
	BreakingChanges   []BreakingChange `json:"breaking_changes"`
	SecurityUpdates   []SecurityUpdate `json:"security_updates"`
	Deprecations      []Deprecation    `json:"deprecations"`
	TotalIssues       int              `json:"total_issues"`
	HasCriticalIssues bool             `json:"has_critical_issues"`
}
