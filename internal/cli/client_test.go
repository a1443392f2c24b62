package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperjump/juris/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var req models.SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Tema 1046", req.Query)
		assert.Equal(t, []string{"superior"}, req.Branches)
		assert.Equal(t, []string{"stf"}, req.Courts)
		_ = json.NewEncoder(w).Encode(sampleResponse())
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	resp, err := c.Search(context.Background(), &models.SearchRequest{
		Query: "Tema 1046", Branches: []string{"superior"}, Courts: []string{"stf"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, []string{"TJSP: tempo limite excedido."}, resp.Warnings)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Muitas requisições."}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Search(context.Background(), &models.SearchRequest{Query: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "Muitas requisições.", apiErr.Message)
	assert.Equal(t, "7", apiErr.RetryAfter)
	assert.Contains(t, err.Error(), "retry after 7s")
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Search(context.Background(), &models.SearchRequest{Query: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Message)
	assert.Equal(t, "server returned 502: bad gateway", err.Error())
}

func TestClient_CourtsAndCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courts":
			assert.Equal(t, "federal,trabalho", r.URL.Query().Get("branch"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"courts": []models.CourtInfo{{ID: "trf1", Name: "TRF1", Branch: models.CategoryFederal}},
			})
		case "/api/v1/categories":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"categories": models.Categories(),
				"defaults":   models.DefaultCategories,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	courts, err := c.Courts(context.Background(), []string{"federal", "trabalho"})
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "trf1", courts[0].ID)

	cats, defaults, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 4)
	assert.Equal(t, models.DefaultCategories, defaults)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Search(context.Background(), &models.SearchRequest{Query: "x"})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
