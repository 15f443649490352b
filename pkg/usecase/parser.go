package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// ParseAnalysisResponse converts raw provider text into a ChangeAnalysis.
// It never fails: strict JSON decoding is attempted first, then a
// section-based text scan, and empty input yields an empty analysis with
// confidence 0.
func ParseAnalysisResponse(raw string) model.ChangeAnalysis {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return emptyAnalysis()
	}

	if analysis, ok := parseJSONResponse(trimmed); ok {
		return analysis
	}
	return parseTextResponse(trimmed)
}

func emptyAnalysis() model.ChangeAnalysis {
	return model.ChangeAnalysis{
		BreakingChanges: []string{},
		NewFeatures:     []string{},
		BugFixes:        []string{},
		SecurityUpdates: []string{},
		Deprecations:    []string{},
		Recommendations: []string{},
		Confidence:      0.0,
	}
}

// looseConfidence decodes a confidence value that may arrive as a JSON
// number or a numeric string, clamping the result into [0,1].
type looseConfidence float64

func (c *looseConfidence) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = 0.5
		return nil
	}
	*c = looseConfidence(clampConfidence(v))
	return nil
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// parseJSONResponse extracts the outermost JSON object from the response
// and decodes it against the analysis schema. Unknown fields are ignored;
// missing fields default to empty.
func parseJSONResponse(raw string) (model.ChangeAnalysis, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return model.ChangeAnalysis{}, false
	}

	var decoded struct {
		Summary         string          `json:"summary"`
		BreakingChanges []string        `json:"breaking_changes"`
		NewFeatures     []string        `json:"new_features"`
		BugFixes        []string        `json:"bug_fixes"`
		SecurityUpdates []string        `json:"security_updates"`
		Deprecations    []string        `json:"deprecations"`
		Recommendations []string        `json:"recommendations"`
		Confidence      looseConfidence `json:"confidence"`
	}
	decoded.Confidence = 0.5

	if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
		return model.ChangeAnalysis{}, false
	}
	if decoded.Summary == "" {
		// Structured but unusable; let the text scanner have a go.
		return model.ChangeAnalysis{}, false
	}

	return model.ChangeAnalysis{
		Summary:         decoded.Summary,
		BreakingChanges: orEmpty(decoded.BreakingChanges),
		NewFeatures:     orEmpty(decoded.NewFeatures),
		BugFixes:        orEmpty(decoded.BugFixes),
		SecurityUpdates: orEmpty(decoded.SecurityUpdates),
		Deprecations:    orEmpty(decoded.Deprecations),
		Recommendations: orEmpty(decoded.Recommendations),
		Confidence:      float64(decoded.Confidence),
	}, true
}

// Section header vocabulary for the text fallback. Matching is
// case-insensitive and each header claims subsequent bullet lines until the
// next recognized header.
type sectionTarget int

const (
	sectionNone sectionTarget = iota
	sectionSummary
	sectionBreaking
	sectionFeatures
	sectionBugFixes
	sectionSecurity
	sectionDeprecations
	sectionRecommendations
)

func recognizeHeader(line string) (sectionTarget, string) {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, ":")
	if idx < 0 {
		return sectionNone, ""
	}
	head := lower[:idx]
	rest := strings.TrimSpace(line[idx+1:])

	switch {
	case strings.Contains(head, "summary"):
		return sectionSummary, rest
	case strings.Contains(head, "breaking") && strings.Contains(head, "change"):
		return sectionBreaking, rest
	case strings.Contains(head, "new") && strings.Contains(head, "feature"):
		return sectionFeatures, rest
	case strings.Contains(head, "bug") && strings.Contains(head, "fix"):
		return sectionBugFixes, rest
	case strings.Contains(head, "security"):
		return sectionSecurity, rest
	case strings.Contains(head, "deprecat"):
		return sectionDeprecations, rest
	case strings.Contains(head, "recommend"):
		return sectionRecommendations, rest
	default:
		return sectionNone, ""
	}
}

// parseTextResponse is the lenient fallback: scan for recognized section
// headers and collect bulleted lines under each.
func parseTextResponse(raw string) model.ChangeAnalysis {
	analysis := emptyAnalysis()
	analysis.Confidence = 0.5

	targets := map[sectionTarget]*[]string{
		sectionBreaking:        &analysis.BreakingChanges,
		sectionFeatures:        &analysis.NewFeatures,
		sectionBugFixes:        &analysis.BugFixes,
		sectionSecurity:        &analysis.SecurityUpdates,
		sectionDeprecations:    &analysis.Deprecations,
		sectionRecommendations: &analysis.Recommendations,
	}

	current := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, rest := recognizeHeader(line); section != sectionNone {
			current = section
			if section == sectionSummary && rest != "" {
				analysis.Summary = rest
				current = sectionNone
			}
			continue
		}

		// "Summary" with an empty header line takes the first following line.
		if current == sectionSummary {
			analysis.Summary = stripBullet(line)
			current = sectionNone
			continue
		}

		if list, ok := targets[current]; ok {
			if item := stripBullet(line); item != "" && item != line {
				*list = append(*list, item)
			}
		}
	}

	return analysis
}

// stripBullet removes a leading bullet marker. Returns the line unchanged
// when no marker is present, which lets callers treat unbulleted lines as
// prose rather than list items.
func stripBullet(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	if len(line) > 2 && line[1] == '.' && line[0] >= '0' && line[0] <= '9' {
		return strings.TrimSpace(line[2:])
	}
	return line
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
