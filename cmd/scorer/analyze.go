package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/adapters/validators"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
)

func repositoryURL(id entities.RepositoryIdentifier) string {
	return "https://github.com/" + id.FullName()
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Score a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Analyzing " + args[0])
			metrics := a.service.AnalyzeCodeQuality(cmd.Context(), args[0])
			if spinner != nil {
				_ = spinner.Stop()
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), metrics)
			}
			return renderMetrics(cmd.OutOrStdout(), metrics)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw metrics as JSON")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <url>",
		Short: "Show repository metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}

			info, err := a.service.GetRepositoryInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			return renderInfo(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw info as JSON")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		page, limit int
		latest      bool
	)

	cmd := &cobra.Command{
		Use:   "history <owner/name>",
		Short: "List stored analyses of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := validators.Repo(args[0])
			id, err := repo.Identifier()
			if err != nil {
				return err
			}
			if limit <= 0 || limit > dtos.MaxHistoryLimit {
				return fmt.Errorf("limit must be between 1 and %d", dtos.MaxHistoryLimit)
			}
			if page <= 0 {
				return fmt.Errorf("page must be positive")
			}

			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if latest {
				analysis, err := a.service.LatestAnalysis(cmd.Context(), id)
				if err != nil {
					return err
				}
				return renderLatest(cmd.OutOrStdout(), analysis)
			}

			analyses, pageInfo, err := a.service.History(cmd.Context(), id, dtos.APIPagingDto{Page: page, Limit: limit})
			if err != nil {
				return err
			}
			if err := renderHistory(cmd.OutOrStdout(), analyses); err != nil {
				return err
			}
			if pageInfo.HasNextPage {
				pterm.Info.Printfln("Showing %d of %d analyses, use --page %d for more", pageInfo.Count, pageInfo.TotalCount, pageInfo.Page+1)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", dtos.DefaultHistoryPage, "page of results to show")
	cmd.Flags().IntVarP(&limit, "limit", "n", dtos.DefaultHistoryLimit, "number of analyses per page")
	cmd.Flags().BoolVar(&latest, "latest", false, "show only the most recent analysis in full")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("2006-01-02")
}

func metricsTable(m entities.QualityMetrics) pterm.TableData {
	return pterm.TableData{
		{"Metric", "Value"},
		{"Overall score", strconv.Itoa(m.OverallScore)},
		{"Complexity", string(m.Complexity)},
		{"Open issues", strconv.Itoa(m.OpenIssues)},
		{"Critical bugs", strconv.Itoa(m.CriticalBugs)},
		{"Contributors", strconv.Itoa(m.Contributors)},
		{"Last commit", formatDate(m.LastCommit)},
		{"Test coverage", strconv.Itoa(m.TestCoverage)},
	}
}

func languageItems(languages []entities.LanguageShare) []pterm.BulletListItem {
	items := make([]pterm.BulletListItem, 0, len(languages))
	for _, l := range languages {
		items = append(items, pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("%s %d%%", l.Name, l.Percentage)})
	}
	return items
}

func renderMetrics(w io.Writer, m entities.QualityMetrics) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(metricsTable(m)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, pterm.DefaultSection.Sprint("Quality"))
	fmt.Fprintln(w, table)

	if len(m.Languages) > 0 {
		list, err := pterm.DefaultBulletList.WithItems(languageItems(m.Languages)).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, pterm.DefaultSection.Sprint("Languages"))
		fmt.Fprint(w, list)
	}

	insights := make([]pterm.BulletListItem, 0, len(m.Insights))
	for _, insight := range m.Insights {
		insights = append(insights, pterm.BulletListItem{Text: insight})
	}
	list, err := pterm.DefaultBulletList.WithItems(insights).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, pterm.DefaultSection.Sprint("Insights"))
	fmt.Fprint(w, list)
	return nil
}

func infoTable(info *entities.RepositoryInfo) pterm.TableData {
	description := ""
	if info.Description != nil {
		description = *info.Description
	}
	return pterm.TableData{
		{"Field", "Value"},
		{"Repository", info.FullName},
		{"Description", description},
		{"Language", info.Language},
		{"Stars", strconv.Itoa(info.Stars)},
		{"Forks", strconv.Itoa(info.Forks)},
		{"Open issues", strconv.Itoa(info.OpenIssues)},
		{"Contributors", strconv.Itoa(info.Contributors)},
		{"Default branch", info.DefaultBranch},
		{"Last commit", formatDate(info.LastCommit)},
		{"URL", info.URL},
	}
}

func renderInfo(w io.Writer, info *entities.RepositoryInfo) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(infoTable(info)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	if len(info.Languages) > 0 {
		list, err := pterm.DefaultBulletList.WithItems(languageItems(info.Languages)).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, pterm.DefaultSection.Sprint("Languages"))
		fmt.Fprint(w, list)
	}
	return nil
}

func historyTable(analyses []entities.Analysis) pterm.TableData {
	data := pterm.TableData{{"Analyzed at", "Score", "Complexity", "Open issues", "Critical bugs"}}
	for _, a := range analyses {
		data = append(data, []string{
			a.AnalyzedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(a.Metrics.OverallScore),
			string(a.Metrics.Complexity),
			strconv.Itoa(a.Metrics.OpenIssues),
			strconv.Itoa(a.Metrics.CriticalBugs),
		})
	}
	return data
}

func renderHistory(w io.Writer, analyses []entities.Analysis) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(historyTable(analyses)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	return nil
}

func renderLatest(w io.Writer, analysis *entities.Analysis) error {
	fmt.Fprintf(w, "%s analyzed at %s\n", analysis.Repository.FullName(), analysis.AnalyzedAt.UTC().Format(time.RFC3339))
	return renderMetrics(w, analysis.Metrics)
}
