package models

// AdapterKind selects how a court is queried.
type AdapterKind string

const (
	// AdapterJSON queries a JSON search API and extracts fields by path.
	AdapterJSON AdapterKind = "json"
	// AdapterRSS reads a feed and filters entries by query terms.
	AdapterRSS AdapterKind = "rss"
	// AdapterHTML scrapes a results page with CSS selectors.
	AdapterHTML AdapterKind = "html"
)

// Source is a court that can be searched. Sources are immutable once loaded.
type Source struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Category Category      `json:"branch" yaml:"branch"`
	Adapter  AdapterConfig `json:"-" yaml:"adapter"`
}

// AdapterConfig describes the court endpoint. Which fields apply depends on Kind.
type AdapterConfig struct {
	Kind AdapterKind `yaml:"kind"`
	// URL is the search endpoint. "{query}" is replaced by the escaped query
	// and "{max}" by the result cap.
	URL string `yaml:"url"`
	// Method is GET unless set; POST sends Body with the same placeholders.
	Method string `yaml:"method,omitempty"`
	Body   string `yaml:"body,omitempty"`

	// JSON adapter: gjson paths.
	ItemsPath   string `yaml:"items_path,omitempty"`
	URLPath     string `yaml:"url_path,omitempty"`
	TitlePath   string `yaml:"title_path,omitempty"`
	SnippetPath string `yaml:"snippet_path,omitempty"`
	DatePath    string `yaml:"date_path,omitempty"`

	// HTML adapter: CSS selectors, relative to ItemSelector.
	ItemSelector    string `yaml:"item_selector,omitempty"`
	LinkSelector    string `yaml:"link_selector,omitempty"`
	TitleSelector   string `yaml:"title_selector,omitempty"`
	SnippetSelector string `yaml:"snippet_selector,omitempty"`
	DateSelector    string `yaml:"date_selector,omitempty"`

	// BaseURL resolves relative links; defaults to URL.
	BaseURL string `yaml:"base_url,omitempty"`
}

// SourceNames returns the display names of sources, in order.
func SourceNames(sources []Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return names
}

// CourtInfo is the public listing of a court.
type CourtInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Branch      Category `json:"branch"`
	BranchLabel string   `json:"branchLabel"`
	Adapter     string   `json:"adapter"`
}

// Info returns the public listing of s.
func (s Source) Info() CourtInfo {
	return CourtInfo{
		ID:          s.ID,
		Name:        s.Name,
		Branch:      s.Category,
		BranchLabel: s.Category.Label(),
		Adapter:     string(s.Adapter.Kind),
	}
}
