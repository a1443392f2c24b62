package court

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/pkg/utils"
)

const snippetLen = 400

// htmlAdapter scrapes a results page using the CSS selectors of the catalog entry.
type htmlAdapter struct {
	fetcher *fetcher
}

func (a *htmlAdapter) Search(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error) {
	data, final, err := a.fetcher.fetch(ctx, src, query, max, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	base := src.Adapter.BaseURL
	if base == "" && final != nil {
		base = final.String()
	}
	return parseHTML(src, data, base, max)
}

func parseHTML(src models.Source, data []byte, base string, max int) ([]models.ResultItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, newError(src.ID, "INVALID_HTML", "página de resultados ilegível", ErrInvalidResponse)
	}
	cfg := src.Adapter

	var out []models.ResultItem
	doc.Find(cfg.ItemSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s
		if cfg.LinkSelector != "" {
			link = s.Find(cfg.LinkSelector).First()
		}
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "javascript:") {
			return true
		}
		title := text(s, cfg.TitleSelector)
		if title == "" {
			title = utils.CollapseSpace(link.Text())
		}
		if title == "" {
			title = src.Name
		}
		out = append(out, models.ResultItem{
			URL:         resolveURL(base, cfg.URL, href),
			Title:       title,
			Snippet:     utils.Truncate(text(s, cfg.SnippetSelector), snippetLen),
			PublishedAt: text(s, cfg.DateSelector),
		})
		return max <= 0 || len(out) < max
	})
	return out, nil
}

func text(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return utils.CollapseSpace(s.Find(selector).First().Text())
}

// stripTags returns the text content of an HTML fragment.
func stripTags(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

// resolveURL makes link absolute against base, falling back to the endpoint URL.
func resolveURL(base, endpoint, link string) string {
	if base == "" {
		base = endpoint
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(strings.NewReplacer("{query}", "", "{max}", "").Replace(base))
	if err != nil {
		return link
	}
	return b.ResolveReference(ref).String()
}
