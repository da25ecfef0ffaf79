package reporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the report endpoints onto the router. Export routes
// carry a tighter rate limit since each request renders a full document.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/reports/{family}", h.handleListFamily)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/reports/{family}/export", h.handleGenerate)
	})
}
