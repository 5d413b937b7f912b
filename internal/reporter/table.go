package reporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ronreiter/license-crawler/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// TableReporter outputs a human-readable table followed by license totals
type TableReporter struct{}

// Report generates terminal output for the given rows
func (r *TableReporter) Report(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return []byte("No dependencies found.\n"), nil
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		repo := row.RepoName
		if row.OwnerName != "" {
			repo = row.OwnerName + "/" + repo
		}
		data = append(data, []string{repo, row.Ecosystem, row.PackageWithVersion, row.DependencyKind, row.License})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Repository", "Ecosystem", "Package", "Kind", "License").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 4 && row >= 0 && row < len(data) && data[row][4] == models.UnknownLicense {
				return unknownStyle.Padding(0, 1)
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(summary(rows))
	return []byte(sb.String()), nil
}

// summary counts rows per license, most frequent first
func summary(rows []Row) string {
	counts := map[string]int{}
	repos := map[string]bool{}
	for _, row := range rows {
		lic := row.License
		if lic == "" {
			lic = "(not fetched)"
		}
		counts[lic]++
		repos[row.OwnerName+"/"+row.RepoName] = true
	}

	licenses := make([]string, 0, len(counts))
	for l := range counts {
		licenses = append(licenses, l)
	}
	sort.Slice(licenses, func(i, j int) bool {
		if counts[licenses[i]] != counts[licenses[j]] {
			return counts[licenses[i]] > counts[licenses[j]]
		}
		return licenses[i] < licenses[j]
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d dependencies in %d repositories\n", len(rows), len(repos)))
	for _, l := range licenses {
		sb.WriteString(fmt.Sprintf("  %-24s %d\n", l, counts[l]))
	}
	return sb.String()
}
