package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mklimuk/review-pilot/pkg/ai"
	"github.com/mklimuk/review-pilot/pkg/db"
	"github.com/mklimuk/review-pilot/pkg/review"
)

// Handler holds dependencies for API handlers
type Handler struct {
	Service *review.Service
	Repo    *db.Repository
	AI      ai.Generator
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ReviewInfo describes one registered review type.
type ReviewInfo struct {
	Type  string `json:"type"`
	Unit  string `json:"unit"`
	Title string `json:"title"`
	Lower string `json:"lower"`
	Upper string `json:"upper"`
	Label string `json:"label"`
}

// HandleListReviews handles GET /reviews
func (h *Handler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	var infos []ReviewInfo
	for _, t := range review.Types() {
		window, err := review.ResolveWindow(t, now)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to resolve window: %v", err), http.StatusInternalServerError)
			return
		}
		infos = append(infos, ReviewInfo{
			Type:  string(t),
			Unit:  window.Unit,
			Title: t.Title(),
			Lower: window.Lower,
			Upper: window.Upper,
			Label: window.Label,
		})
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"reviews": infos})
}

// HandleRunReview handles POST /reviews/{type}/run
func (h *Handler) HandleRunReview(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("type")
	t, ok := review.ParseType(raw)
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown review type %q", raw), http.StatusNotFound)
		return
	}

	if err := h.Service.RunReview(r.Context(), t); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, review.ErrAmbiguousUpsert) {
			status = http.StatusConflict
		}
		http.Error(w, fmt.Sprintf("Review failed: %v", err), status)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "type": string(t)})
}

// HandleRunAll handles POST /reviews/run-all
func (h *Handler) HandleRunAll(w http.ResponseWriter, r *http.Request) {
	results := h.Service.RunAllReviews(r.Context())

	statuses := make(map[string]string, len(results))
	failed := 0
	for t, err := range results {
		if err != nil {
			statuses[string(t)] = err.Error()
			failed++
		} else {
			statuses[string(t)] = "ok"
		}
	}

	// One failing type doesn't fail the batch; the response reports
	// per-type outcomes either way.
	if failed == len(results) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"results": statuses, "failed": failed})
}

// HandleListRuns handles GET /runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		http.Error(w, "Run log not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list runs: %v", err), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"runs": runs})
}

// HandleDigest handles GET /digest. The digest is generated on demand
// and returned to the caller only; review notes are never touched.
func (h *Handler) HandleDigest(w http.ResponseWriter, r *http.Request) {
	if h.AI == nil {
		http.Error(w, "AI digest not configured", http.StatusServiceUnavailable)
		return
	}

	t := review.DailyReview
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, ok := review.ParseType(raw)
		if !ok {
			http.Error(w, fmt.Sprintf("Unknown review type %q", raw), http.StatusNotFound)
			return
		}
		t = parsed
	}

	categorized, window, err := h.Service.Snapshot(r.Context(), t)
	if err != nil {
		http.Error(w, fmt.Sprintf("Snapshot failed: %v", err), http.StatusInternalServerError)
		return
	}

	var sections []ai.Section
	for _, c := range review.Categories() {
		section := ai.Section{Title: c.SectionTitle()}
		set := categorized[c]
		if set == nil {
			sections = append(sections, section)
			continue
		}
		for _, id := range set.IDs() {
			if item, ok := set.Get(id); ok {
				section.Titles = append(section.Titles, item.Title)
			}
		}
		sections = append(sections, section)
	}

	text, err := h.AI.GenerateText(r.Context(), ai.DigestPrompt(window.Label, sections))
	if err != nil {
		http.Error(w, fmt.Sprintf("Digest generation failed: %v", err), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"type": string(t), "label": window.Label, "digest": text})
}
