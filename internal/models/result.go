package models

// ResultItem is one hit as reported by a single court.
type ResultItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	PublishedAt string `json:"publishedAt,omitempty"`
	// Rank is the 1-based position in the court's own list.
	Rank int `json:"-"`
}

// SourceOutcome is what a court search produced. A non-empty Error means the
// items must be ignored.
type SourceOutcome struct {
	Items []ResultItem `json:"items"`
	Error string       `json:"error,omitempty"`
}

// AggregatedResult is a ResultItem attributed to its court and scored.
type AggregatedResult struct {
	CourtID        string  `json:"courtId"`
	CourtName      string  `json:"courtName"`
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet"`
	PublishedAt    string  `json:"publishedAt,omitempty"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// RunDiagnostics describes one aggregation run.
type RunDiagnostics struct {
	ElapsedMs       int64    `json:"elapsedMs"`
	CourtsConsulted []string `json:"courtsConsulted"`
	Query           string   `json:"query"`
	RunID           string   `json:"runId,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results     []AggregatedResult `json:"results"`
	Diagnostics RunDiagnostics     `json:"diagnostics"`
	Warnings    []string           `json:"warnings,omitempty"`
}
