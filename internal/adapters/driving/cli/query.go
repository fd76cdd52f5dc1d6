package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// descriptionWidth truncates descriptions in table output.
const descriptionWidth = 60

var (
	queryParams domain.QueryParams
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the local CVE mirror",
	Long: `Lists mirrored CVEs matching every given filter, one page at a time.
Scores filter on the CVSS v3 base score, falling back to v2. Invalid filter
values are ignored rather than rejected.`,
	Example: `  cvemirror query --year 2024 --min-score 9
  cvemirror query --modified-days 7 --sort-by lastModifiedDate --order asc
  cvemirror query --id CVE-2024-3094 --json`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryParams.ID, "id", "", "exact CVE identifier")
	f.StringVar(&queryParams.Year, "year", "", "publication year")
	f.StringVar(&queryParams.MinScore, "min-score", "", "minimum base score")
	f.StringVar(&queryParams.MaxScore, "max-score", "", "maximum base score")
	f.StringVar(&queryParams.LastModifiedDays, "modified-days", "", "modified within this many days")
	f.StringVarP(&queryParams.Page, "page", "p", "1", "page number")
	f.StringVarP(&queryParams.Limit, "limit", "n", "10", "results per page (max 100)")
	f.StringVar(&queryParams.SortBy, "sort-by", "publishedDate", "publishedDate or lastModifiedDate")
	f.StringVar(&queryParams.Order, "order", "desc", "asc or desc")
	f.BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	result, err := queryService.Query(cmd.Context(), queryParams)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputQueryTable(cmd, result)
}

func outputQueryTable(cmd *cobra.Command, result *domain.QueryResult) error {
	if len(result.Results) == 0 {
		cmd.Printf("No results found (total %d).\n", result.Total)
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "PUBLISHED", "MODIFIED", "SCORE", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i := range result.Results {
		r := &result.Results[i]
		t.Row(
			r.ID,
			datePart(r.PublishedDate),
			datePart(r.LastModifiedDate),
			formatScore(r),
			truncate(valueOr(r.Description, ""), descriptionWidth),
		)
	}

	cmd.Println(t.Render())

	first := (result.Page-1)*result.Limit + 1
	last := first + len(result.Results) - 1
	cmd.Printf("Showing %d-%d of %d (page %d)\n", first, last, result.Total, result.Page)
	return nil
}

// formatScore shows the v3 score and, when both exist, the v2 score.
func formatScore(r *domain.RecordSummary) string {
	switch {
	case r.BaseScoreV3 != nil && r.BaseScoreV2 != nil:
		return fmt.Sprintf("%s / %s", scoreString(*r.BaseScoreV3), scoreString(*r.BaseScoreV2))
	case r.BaseScoreV3 != nil:
		return scoreString(*r.BaseScoreV3)
	case r.BaseScoreV2 != nil:
		return scoreString(*r.BaseScoreV2) + " (v2)"
	default:
		return "-"
	}
}

func scoreString(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// datePart returns the date portion of an ISO 8601 timestamp.
func datePart(s *string) string {
	v := valueOr(s, "-")
	if i := strings.IndexByte(v, 'T'); i > 0 {
		return v[:i]
	}
	return v
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
