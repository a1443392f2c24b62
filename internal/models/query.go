package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when the query is blank after trimming.
var ErrEmptyQuery = errors.New("empty search query")

// SearchRequest is a jurisprudence search as submitted by a client.
type SearchRequest struct {
	Query string `json:"query"`
	// Branches are requested category names; unknown names are ignored.
	Branches []string `json:"branches,omitempty"`
	// Courts are pinned court ids, consulted first.
	Courts []string `json:"courts,omitempty"`
}

// UnmarshalJSON decodes a request leniently. A query that is not a string
// becomes empty, and branches or courts that are not arrays become empty.
// Array elements that are not strings are dropped.
func (r *SearchRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Query    json.RawMessage `json:"query"`
		Branches json.RawMessage `json:"branches"`
		Courts   json.RawMessage `json:"courts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = SearchRequest{
		Query:    rawString(raw.Query),
		Branches: rawStrings(raw.Branches),
		Courts:   rawStrings(raw.Courts),
	}
	return nil
}

func rawString(data json.RawMessage) string {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil {
		return ""
	}
	return s
}

func rawStrings(data json.RawMessage) []string {
	var items []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// Validate trims the query and returns ErrEmptyQuery if nothing is left.
func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Categories returns the valid requested categories.
func (r *SearchRequest) Categories() []Category {
	return ParseCategories(r.Branches)
}

// PinnedSet returns the pinned court ids as a set.
func (r *SearchRequest) PinnedSet() map[string]bool {
	set := make(map[string]bool, len(r.Courts))
	for _, id := range r.Courts {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = true
		}
	}
	return set
}
