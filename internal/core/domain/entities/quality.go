package entities

import "time"

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// DependencyHealth is reserved; both counts are always zero.
type DependencyHealth struct {
	Outdated   int `json:"outdated"`
	Vulnerable int `json:"vulnerable"`
}

// QualityMetrics is the result of analysing one repository.
type QualityMetrics struct {
	OverallScore     int              `json:"overall_score"`
	TestCoverage     int              `json:"test_coverage"`
	OpenIssues       int              `json:"open_issues"`
	CriticalBugs     int              `json:"critical_bugs"`
	Complexity       Complexity       `json:"complexity"`
	LastCommit       time.Time        `json:"last_commit"`
	Contributors     int              `json:"contributors"`
	DependencyHealth DependencyHealth `json:"dependency_health"`
	Languages        []LanguageShare  `json:"languages"`
	Insights         []string         `json:"insights"`
}

// Analysis is a persisted QualityMetrics for one repository.
type Analysis struct {
	ID         uint                 `json:"id"`
	Repository RepositoryIdentifier `json:"repository"`
	Metrics    QualityMetrics       `json:"metrics"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}
