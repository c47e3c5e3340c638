package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lexia-ai/sous/internal/metrics"
	"github.com/lexia-ai/sous/internal/search"
)

const searchDefaultNum = 5

// searchHandler serves GET /api/v1/search.
//
// The endpoint uses the server-side API key from configuration; a request may
// override it with an X-API-KEY header.
type searchHandler struct {
	searcher *search.Client
	apiKey   string
	logger   *slog.Logger
}

// searchResponse is the JSON body for GET /api/v1/search.
type searchResponse struct {
	Query     string          `json:"query"`
	Results   []search.Result `json:"results"`
	Formatted string          `json:"formatted"`
}

func (h *searchHandler) searchWeb(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "q parameter is required", h.logger)
		return
	}

	num := searchDefaultNum
	if raw := r.URL.Query().Get("num"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "INVALID_NUM", "num must be a positive integer", h.logger)
			return
		}
		num = parsed
	}

	apiKey := r.Header.Get("X-API-KEY")
	if apiKey == "" {
		apiKey = h.apiKey
	}

	results, err := h.searcher.Search(r.Context(), apiKey, query, num)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("web", metrics.OutcomeError).Inc()
		if errors.Is(err, search.ErrMissingAPIKey) {
			writeError(w, http.StatusUnauthorized, "MISSING_API_KEY", err.Error(), h.logger)
			return
		}
		h.logger.Error("web search failed", "query", query, "err", err)
		writeError(w, http.StatusBadGateway, "SEARCH_FAILED", "search request failed", h.logger)
		return
	}

	outcome := metrics.OutcomeFound
	if len(results) == 0 {
		outcome = metrics.OutcomeNotFound
	}
	metrics.SearchesTotal.WithLabelValues("web", outcome).Inc()

	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:     query,
		Results:   results,
		Formatted: search.FormatResults(query, results),
	}, h.logger)
}
