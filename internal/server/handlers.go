package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/search"
	"go.uber.org/zap"
)

// Messages returned to API clients.
const (
	msgInvalidBody = "Requisição inválida. Envie um corpo JSON com a consulta."
	msgEmptyQuery  = "Informe um termo ou tema de pesquisa."
	msgNoCourts    = "Nenhum tribunal selecionado para pesquisa."
	msgNoSuchCourt = "Tribunal não encontrado."
	msgThrottled   = "Muitas requisições. Aguarde alguns segundos e tente novamente."
	msgInternal    = "Erro interno ao processar a pesquisa."
)

const maxRequestBody = 64 << 10

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.Strings("branches", req.Branches),
		zap.Strings("courts", req.Courts),
	)
	response, err := s.engine.Search(r.Context(), &req)
	switch {
	case errors.Is(err, models.ErrEmptyQuery):
		s.respondError(w, http.StatusBadRequest, msgEmptyQuery)
		return
	case errors.Is(err, search.ErrNoSources):
		s.respondError(w, http.StatusBadRequest, msgNoCourts)
		return
	case err != nil:
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCourts(w http.ResponseWriter, r *http.Request) {
	categories := models.ParseCategories(splitList(r.URL.Query()["branch"]))
	sources := s.engine.Courts(categories)
	courts := make([]models.CourtInfo, len(sources))
	for i, src := range sources {
		courts[i] = src.Info()
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"courts": courts})
}

func (s *Server) handleCourt(w http.ResponseWriter, r *http.Request) {
	src, ok := s.engine.Court(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, msgNoSuchCourt)
		return
	}
	s.respondJSON(w, http.StatusOK, src.Info())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": models.Categories(),
		"defaults":   s.engine.DefaultCategories(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"courts": len(s.engine.Courts(nil)),
	})
}

func (s *Server) rejectThrottled(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	s.logger.Debug("request throttled", zap.String("remote", r.RemoteAddr), zap.Duration("retry_after", retryAfter))
	s.respondError(w, http.StatusTooManyRequests, msgThrottled)
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
