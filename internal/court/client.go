package court

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/juris/internal/models"
)

const maxBodyBytes = 4 << 20

// NewHTTPClient creates the HTTP client shared by all adapters.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// fetcher performs rate-limited requests against court endpoints.
type fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *HostLimiter
}

// ExpandURL fills the {query} and {max} placeholders of a URL template.
func ExpandURL(tmpl, query string, max int) string {
	r := strings.NewReplacer("{query}", url.QueryEscape(query), "{max}", strconv.Itoa(max))
	return r.Replace(tmpl)
}

// ExpandBody fills the placeholders of a request body template. The query is
// escaped for use inside a JSON string.
func ExpandBody(tmpl, query string, max int) string {
	quoted, _ := json.Marshal(query)
	escaped := string(quoted[1 : len(quoted)-1])
	r := strings.NewReplacer("{query}", escaped, "{max}", strconv.Itoa(max))
	return r.Replace(tmpl)
}

// fetch sends the court's search request and returns the response body and
// the final request URL.
func (f *fetcher) fetch(ctx context.Context, src models.Source, query string, max int, accept string) ([]byte, *url.URL, error) {
	cfg := src.Adapter
	target := ExpandURL(cfg.URL, query, max)
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if method == http.MethodPost && cfg.Body != "" {
		body = bytes.NewBufferString(ExpandBody(cfg.Body, query, max))
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, nil, newError(src.ID, "BAD_REQUEST", "endereço de pesquisa inválido", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, req.URL.Host); err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			return nil, nil, newError(src.ID, "RATE_LIMITED", "limite de requisições ao tribunal excedido", err)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, newError(src.ID, "REQUEST_FAILED", "não foi possível contatar o tribunal", fmt.Errorf("%w: %v", ErrRequestFailed, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, nil, newError(src.ID, fmt.Sprintf("HTTP_%d", resp.StatusCode),
			fmt.Sprintf("o tribunal respondeu com status %d", resp.StatusCode), ErrBadStatus)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, newError(src.ID, "READ_FAILED", "resposta incompleta do tribunal", fmt.Errorf("%w: %v", ErrRequestFailed, err))
	}
	return data, resp.Request.URL, nil
}
