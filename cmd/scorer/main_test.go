package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
)

func TestMetricsTable(t *testing.T) {
	m := entities.QualityMetrics{
		OverallScore: 95,
		Complexity:   entities.ComplexityLow,
		OpenIssues:   3,
		Contributors: 1,
		LastCommit:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	data := metricsTable(m)
	assert.Equal(t, []string{"Metric", "Value"}, data[0])
	assert.Contains(t, data, []string{"Overall score", "95"})
	assert.Contains(t, data, []string{"Complexity", "low"})
	assert.Contains(t, data, []string{"Last commit", "2024-05-01"})
}

func TestFormatDateUnknown(t *testing.T) {
	assert.Equal(t, "unknown", formatDate(time.Time{}))
}

func TestRenderMetrics(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var out bytes.Buffer
	err := renderMetrics(&out, entities.QualityMetrics{
		OverallScore: 72,
		Complexity:   entities.ComplexityMedium,
		Languages:    []entities.LanguageShare{{Name: "Go", Percentage: 99}, {Name: "Shell", Percentage: 1}},
		Insights:     []string{"Growing community interest"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "72")
	assert.Contains(t, out.String(), "Go 99%")
	assert.Contains(t, out.String(), "Growing community interest")
}

func TestRenderLatest(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var out bytes.Buffer
	err := renderLatest(&out, &entities.Analysis{
		Repository: entities.RepositoryIdentifier{Owner: "octocat", Name: "hello-world"},
		Metrics:    entities.QualityMetrics{OverallScore: 64, Complexity: entities.ComplexityLow, Insights: []string{"Single-maintainer project"}},
		AnalyzedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "octocat/hello-world analyzed at 2024-05-01T08:30:00Z")
	assert.Contains(t, out.String(), "64")
	assert.Contains(t, out.String(), "Single-maintainer project")
}

func TestInfoTable(t *testing.T) {
	description := "My first repository"
	data := infoTable(&entities.RepositoryInfo{FullName: "octocat/hello-world", Description: &description, Stars: 10})

	assert.Contains(t, data, []string{"Repository", "octocat/hello-world"})
	assert.Contains(t, data, []string{"Description", "My first repository"})
	assert.Contains(t, data, []string{"Stars", "10"})

	data = infoTable(&entities.RepositoryInfo{})
	assert.Contains(t, data, []string{"Description", ""})
}

func TestHistoryTable(t *testing.T) {
	analyses := []entities.Analysis{{
		Metrics:    entities.QualityMetrics{OverallScore: 80, Complexity: entities.ComplexityHigh},
		AnalyzedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}

	data := historyTable(analyses)
	require.Len(t, data, 2)
	assert.Equal(t, []string{"2024-05-01T00:00:00Z", "80", "high", "0", "0"}, data[1])
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"analyze without url", []string{"analyze"}},
		{"info with two urls", []string{"info", "a", "b"}},
		{"history with invalid repository", []string{"history", "not-a-repo"}},
		{"history with invalid limit", []string{"history", "octocat/hello-world", "--limit", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestRepositoryURL(t *testing.T) {
	assert.Equal(t, "https://github.com/octocat/hello-world", repositoryURL(entities.RepositoryIdentifier{Owner: "octocat", Name: "hello-world"}))
}
