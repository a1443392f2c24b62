// Package cli provides output formatting and an API client for the juris CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact prints one result per line.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is the API response as indented JSON.
	OutputJSON SearchOutputFormat = "json"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch f := SearchOutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	d := response.Diagnostics
	fmt.Fprintf(w, "\n%d resultados para %q em %dms (%d tribunais consultados)\n\n",
		len(response.Results), d.Query, d.ElapsedMs, len(d.CourtsConsulted))
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
	writeWarnings(w, response.Warnings)
}

func writeOneResult(w io.Writer, pos int, result models.AggregatedResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "#%d | %s | Score: %.4f\n", pos, result.CourtName, result.RelevanceScore)
	if result.Title != "" {
		fmt.Fprintf(w, "%s\n", result.Title)
	}
	if result.PublishedAt != "" {
		fmt.Fprintf(w, "Data: %s\n", result.PublishedAt)
	}
	fmt.Fprintf(w, "%s\n", result.URL)
	if result.Snippet != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Snippet, 200))
	}
	fmt.Fprintln(w)
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, r := range response.Results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", r.RelevanceScore, r.CourtID, TruncateWords(r.Title, 12), r.URL)
	}
	for _, warning := range response.Warnings {
		fmt.Fprintf(os.Stderr, "aviso: %s\n", warning)
	}
}

func writeWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "Avisos:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "  • %s\n", warning)
	}
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

// WriteCourts prints courts as an aligned table.
func WriteCourts(w io.Writer, courts []models.CourtInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRAMO\tTIPO\tNOME")
	for _, c := range courts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Branch, c.Adapter, c.Name)
	}
	return tw.Flush()
}

// WriteCategories prints the category table, marking the defaults.
func WriteCategories(w io.Writer, categories []models.CategoryInfo, defaults []models.Category) error {
	isDefault := make(map[models.Category]bool, len(defaults))
	for _, c := range defaults {
		isDefault[c] = true
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RAMO\tPRIORIDADE\tPESO\tPADRÃO\tDESCRIÇÃO")
	for _, c := range categories {
		mark := ""
		if isDefault[c.Category] {
			mark = "sim"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\t%s\n", c.Category, c.Priority, c.Boost, mark, c.Label)
	}
	return tw.Flush()
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
