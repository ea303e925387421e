package quality

import "time"

// DefaultInsight is returned when no other insight applies.
const DefaultInsight = "Code analysis completed successfully"

const (
	InsightHighlyPopular     = "Highly popular repository with strong community interest"
	InsightGrowingCommunity  = "Growing community interest"
	InsightActiveForks       = "Very active fork community"
	InsightForked            = "Actively forked by other developers"
	InsightIssueBacklog      = "High number of open issues may indicate a maintenance backlog"
	InsightModerateIssues    = "Moderate number of open issues"
	InsightCriticalBugs      = "Several critical bugs need attention"
	InsightSomeBugs          = "Some bug reports are open"
	InsightRecentActivity    = "Very active development with recent commits"
	InsightStale             = "No commits in over a year"
	InsightCollaborative     = "Strong collaborative development"
	InsightSingleMaintainer  = "Single-maintainer project"
	InsightDiverseTechnology = "Diverse technology stack"
)

// Insights returns short observations about a repository, at most one per
// signal, in a fixed order. The result is never empty.
func Insights(s Signals, languageCount int, now time.Time) []string {
	var insights []string

	switch {
	case s.Stars > 1000:
		insights = append(insights, InsightHighlyPopular)
	case s.Stars > 100:
		insights = append(insights, InsightGrowingCommunity)
	}

	switch {
	case s.Forks > 100:
		insights = append(insights, InsightActiveForks)
	case s.Forks > 10:
		insights = append(insights, InsightForked)
	}

	switch {
	case s.OpenIssues > 50:
		insights = append(insights, InsightIssueBacklog)
	case s.OpenIssues > 20:
		insights = append(insights, InsightModerateIssues)
	}

	switch {
	case s.BugCount > 5:
		insights = append(insights, InsightCriticalBugs)
	case s.BugCount > 0:
		insights = append(insights, InsightSomeBugs)
	}

	if days, ok := DaysSince(s.LastCommitAt, now); ok {
		switch {
		case days < 7:
			insights = append(insights, InsightRecentActivity)
		case days > 365:
			insights = append(insights, InsightStale)
		}
	}

	switch {
	case s.Contributors > 10:
		insights = append(insights, InsightCollaborative)
	case s.Contributors == 1:
		insights = append(insights, InsightSingleMaintainer)
	}

	if languageCount > 5 {
		insights = append(insights, InsightDiverseTechnology)
	}

	if len(insights) == 0 {
		return []string{DefaultInsight}
	}
	return insights
}
