package usecase

import (
	"regexp"
	"strings"
)

// Commit message markers. An explicit breaking-change marker always wins
// over a deprecation marker within the same message.
var (
	explicitBreakingRe  = regexp.MustCompile(`(?i)breaking[ _-]change|^breaking:`)
	deprecationMarkerRe = regexp.MustCompile(`(?i)deprecat`)
)

// API signature tokens that indicate an interface change when they appear
// in added or removed diff lines.
var apiSignaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdef\s+\w+\s*\(`),
	regexp.MustCompile(`\bclass\s+\w+`),
	regexp.MustCompile(`\bfunc\s+(\(\w+\s+\*?\w+\)\s+)?\w+\s*\(`),
	regexp.MustCompile(`\bfunction\s+\w+\s*\(`),
	regexp.MustCompile(`\binterface\s+\w+`),
	regexp.MustCompile(`@\w+\([^)]*\)`),
}

var configFileSuffixes = []string{
	".env", ".ini", ".toml", ".yaml", ".yml", ".json", ".xml",
}

var (
	configFileNameRe    = regexp.MustCompile(`(?i)(^|/)(config|settings)[^/]*$`)
	configContentRe     = regexp.MustCompile(`(?i)\bconfig\.|settings\.|configuration\b`)
	databaseFileRe      = regexp.MustCompile(`(?i)migration|\.sql$`)
	databaseContentRe   = regexp.MustCompile(`(?i)ALTER\s+TABLE|DROP\s+TABLE|CREATE\s+TABLE|\bmigration\b|\bschema\b`)
	dependencyContentRe = regexp.MustCompile(`(?i)requirements\.txt|pyproject\.toml|package\.json|go\.mod|Cargo\.toml|\bdependenc`)
)

var dependencyManifests = map[string]bool{
	"requirements.txt": true,
	"pyproject.toml":   true,
	"setup.py":         true,
	"package.json":     true,
	"gemfile":          true,
	"go.mod":           true,
	"go.sum":           true,
	"cargo.toml":       true,
	"pom.xml":          true,
	"build.gradle":     true,
}

// Security patterns grouped by category. Each category that matches a line
// yields one security-update finding.
var securityPatterns = map[string][]*regexp.Regexp{
	"vulnerability": compilePatterns(
		`CVE-\d{4}-\d+`,
		`vulnerability\b`,
		`security\s+(fix|patch|update)`,
		`buffer\s+overflow`,
		`sql\s+injection`,
		`\bxss\b`,
		`cross-site\s+scripting`,
		`authentication\s+bypass`,
		`privilege\s+escalation`,
		`remote\s+code\s+execution`,
		`\brce\b`,
		`denial\s+of\s+service`,
	),
	"authentication": compilePatterns(
		`\bauth\b`, `authentication\b`, `\blogin\b`, `\bpassword\b`,
		`\btoken\b`, `\bjwt\b`, `\boauth\b`, `\bsession\b`,
	),
	"authorization": compilePatterns(
		`\bcsrf\b`, `authorization\b`, `\bpermission\b`, `access\s+control`,
		`\brbac\b`, `\bacl\b`, `\bprivilege\b`,
	),
	"encryption": compilePatterns(
		`\bencrypt\b`, `\bdecrypt\b`, `\bbcrypt\b`, `\bpbkdf2\b`,
		`\baes\b`, `\brsa\b`, `\bssl\b`, `\btls\b`, `\bcertificate\b`,
		`private\s+key`, `public\s+key`,
	),
	"dependency": compilePatterns(
		`dependency\s+update`, `package\s+update`, `npm\s+audit`,
		`pip\s+audit`, `cargo\s+audit`, `security\s+dependency`,
	),
}

// Fixed iteration order keeps detector output deterministic.
var securityCategories = []string{
	"vulnerability", "authentication", "authorization", "encryption", "dependency",
}

var (
	criticalSecurityRe = regexp.MustCompile(`(?i)critical\s+vulnerability|remote\s+code\s+execution|\brce\b|privilege\s+escalation|authentication\s+bypass`)
	highSecurityRe     = regexp.MustCompile(`(?i)cve-|vulnerability|security\s+(fix|patch)|buffer\s+overflow|sql\s+injection|xss|cross-site\s+scripting`)
	mediumSecurityRe   = regexp.MustCompile(`(?i)security|auth|encryption`)
)

// Deprecation patterns grouped by category.
var deprecationPatterns = map[string][]*regexp.Regexp{
	"api_deprecation": compilePatterns(
		`@deprecated\b`, `DeprecationWarning\b`, `deprecated\b`,
		`deprecation\b`, `old\s+api`,
	),
	"feature_deprecation": compilePatterns(
		`obsolete\b`, `legacy\b`, `feature\s+deprecated`, `functionality\s+deprecated`,
	),
	"config_deprecation": compilePatterns(
		`(option|setting|parameter|config)\s+deprecated`,
	),
	"dependency_deprecation": compilePatterns(
		`(dependency|package|library|version)\s+deprecated`,
	),
	"removal": compilePatterns(
		`removed\b`, `will\s+be\s+removed`, `sunset\b`,
	),
}

var deprecationCategories = []string{
	"api_deprecation", "feature_deprecation", "config_deprecation",
	"dependency_deprecation", "removal",
}

var (
	highDeprecationRe   = regexp.MustCompile(`(?i)removed|deleted|obsolete|will\s+be\s+removed|breaking\s+change`)
	mediumDeprecationRe = regexp.MustCompile(`(?i)deprecated|deprecation|legacy|old\s+api|sunset`)
)

var (
	cveRe       = regexp.MustCompile(`(?i)CVE-\d{4}-\d+`)
	componentRe = regexp.MustCompile(`\b[\w/-]+\.(?:go|py|js|ts|rb|java|rs|c|cpp|h|sql|sh|yaml|yml|toml|json|txt|cfg|ini)\b`)
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func hasConfigSuffix(filename string) bool {
	lower := strings.ToLower(filename)
	for _, suffix := range configFileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
