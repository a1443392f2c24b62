package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hyperjump/juris/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status     int
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("server returned %d: %s (retry after %ss)", e.Status, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to a running juris server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search runs a search on the server.
func (c *Client) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var response models.SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", bytes.NewReader(body), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Courts lists the courts of the given branches; none means all.
func (c *Client) Courts(ctx context.Context, branches []string) ([]models.CourtInfo, error) {
	path := "/api/v1/courts"
	if len(branches) > 0 {
		path += "?" + url.Values{"branch": {strings.Join(branches, ",")}}.Encode()
	}
	var out struct {
		Courts []models.CourtInfo `json:"courts"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Courts, nil
}

// Categories returns the category table and the default selection.
func (c *Client) Categories(ctx context.Context) ([]models.CategoryInfo, []models.Category, error) {
	var out struct {
		Categories []models.CategoryInfo `json:"categories"`
		Defaults   []models.Category     `json:"defaults"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Categories, out.Defaults, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(b)), RetryAfter: resp.Header.Get("Retry-After")}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
