// internal/handler/health_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/unclebandit/campaign-intake/internal/docstore"
)

// HealthHandler reports liveness and document store reachability
type HealthHandler struct {
	Store   docstore.Store
	Backend string
}

// NewHealthHandler creates a HealthHandler for the given store
func NewHealthHandler(store docstore.Store, backend string) *HealthHandler {
	return &HealthHandler{Store: store, Backend: backend}
}

// Health answers as long as the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  "campaign-intake",
		"hostname": hostname,
	})
}

// StoreHealth pings the configured document store.
func (h *HealthHandler) StoreHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		log.Println("⚠️ Store health check failed:", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": h.Backend + " unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": h.Backend,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
