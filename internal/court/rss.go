package court

import (
	"bytes"
	"context"
	"strings"

	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/ranking"
	"github.com/hyperjump/juris/pkg/utils"
	"github.com/mmcdole/gofeed"
)

// rssAdapter reads a court feed. Feeds are not searchable, so entries are
// filtered locally against the query.
type rssAdapter struct {
	fetcher  *fetcher
	analyzer *ranking.QueryAnalyzer
}

func (a *rssAdapter) Search(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error) {
	data, _, err := a.fetcher.fetch(ctx, src, query, max, "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if err != nil {
		return nil, err
	}
	return parseFeed(src, data, a.analyzer.Analyze(query), max)
}

func parseFeed(src models.Source, data []byte, q *ranking.AnalyzedQuery, max int) ([]models.ResultItem, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, newError(src.ID, "INVALID_FEED", "feed do tribunal ilegível", ErrInvalidResponse)
	}

	var out []models.ResultItem
	for _, it := range feed.Items {
		if max > 0 && len(out) >= max {
			break
		}
		title := strings.TrimSpace(it.Title)
		snippet := stripTags(it.Description)
		if snippet == "" {
			snippet = stripTags(it.Content)
		}
		if !q.Matches(title + " " + snippet) {
			continue
		}
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		item := models.ResultItem{
			URL:     resolveURL(src.Adapter.BaseURL, src.Adapter.URL, link),
			Title:   utils.CollapseSpace(title),
			Snippet: utils.Truncate(utils.CollapseSpace(snippet), snippetLen),
		}
		switch {
		case it.PublishedParsed != nil:
			item.PublishedAt = it.PublishedParsed.Format("2006-01-02")
		case it.UpdatedParsed != nil:
			item.PublishedAt = it.UpdatedParsed.Format("2006-01-02")
		default:
			item.PublishedAt = strings.TrimSpace(it.Published)
		}
		out = append(out, item)
	}
	return out, nil
}
