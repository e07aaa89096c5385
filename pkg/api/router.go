package api

import (
	"net/http"

	"github.com/mklimuk/review-pilot/pkg/ai"
	"github.com/mklimuk/review-pilot/pkg/db"
	"github.com/mklimuk/review-pilot/pkg/review"
)

// NewRouter creates a new HTTP router
func NewRouter(svc *review.Service, repo *db.Repository, aiClient ai.Generator) *http.ServeMux {
	mux := http.NewServeMux()

	h := &Handler{
		Service: svc,
		Repo:    repo,
		AI:      aiClient,
	}

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /reviews", h.HandleListReviews)
	mux.HandleFunc("POST /reviews/run-all", h.HandleRunAll)
	mux.HandleFunc("POST /reviews/{type}/run", h.HandleRunReview)
	mux.HandleFunc("GET /runs", h.HandleListRuns)
	mux.HandleFunc("GET /digest", h.HandleDigest)

	return mux
}
