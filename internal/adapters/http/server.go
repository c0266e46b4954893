// Package http exposes the module catalog over a small read-only HTTP
// surface, plus the Prometheus metrics endpoint.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/registry"
)

// moduleSummary is the /modules/{path} payload.
type moduleSummary struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Submodule bool     `json:"submodule"`
	Remarks   []string `json:"remarks,omitempty"`
	States    []string `json:"states"`
}

// NewHandler builds the router. metrics is mounted at /metrics when non-nil.
func NewHandler(reg *registry.Registry, metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/modules", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, reg.Names())
	})

	r.Get("/modules/*", func(w http.ResponseWriter, req *http.Request) {
		path := chi.URLParam(req, "*")
		def, err := reg.Get(path)
		switch {
		case errors.Is(err, domain.ErrModuleNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, moduleSummary{
				Path:      path,
				Name:      def.Name(),
				Submodule: def.Submodule(),
				Remarks:   def.Remarks(),
				States:    def.StateNames(),
			})
		}
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
