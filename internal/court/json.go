package court

import (
	"context"

	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/pkg/utils"
	"github.com/tidwall/gjson"
)

// jsonAdapter reads a JSON search API, extracting fields with gjson paths.
type jsonAdapter struct {
	fetcher *fetcher
}

func (a *jsonAdapter) Search(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error) {
	data, _, err := a.fetcher.fetch(ctx, src, query, max, "application/json")
	if err != nil {
		return nil, err
	}
	return parseJSON(src, data, max)
}

func parseJSON(src models.Source, data []byte, max int) ([]models.ResultItem, error) {
	if !gjson.ValidBytes(data) {
		return nil, newError(src.ID, "INVALID_JSON", "resposta do tribunal não é JSON válido", ErrInvalidResponse)
	}
	cfg := src.Adapter
	list := gjson.GetBytes(data, cfg.ItemsPath)
	if !list.Exists() {
		return []models.ResultItem{}, nil
	}
	if !list.IsArray() {
		return nil, newError(src.ID, "INVALID_JSON", "lista de resultados ausente na resposta", ErrInvalidResponse)
	}

	var out []models.ResultItem
	list.ForEach(func(_, hit gjson.Result) bool {
		link := hit.Get(cfg.URLPath).String()
		if link == "" {
			return true
		}
		item := models.ResultItem{
			URL:     resolveURL(cfg.BaseURL, cfg.URL, link),
			Title:   utils.CollapseSpace(field(hit, cfg.TitlePath)),
			Snippet: utils.Truncate(utils.CollapseSpace(stripTags(field(hit, cfg.SnippetPath))), snippetLen),
		}
		if item.Title == "" {
			item.Title = src.Name
		}
		item.PublishedAt = field(hit, cfg.DatePath)
		out = append(out, item)
		return max <= 0 || len(out) < max
	})
	return out, nil
}

func field(hit gjson.Result, path string) string {
	if path == "" {
		return ""
	}
	return hit.Get(path).String()
}
