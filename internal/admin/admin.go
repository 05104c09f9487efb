package admin

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"poolPulse/internal/model"
)

// Watchdog is the control surface the admin endpoints need.
type Watchdog interface {
	Status() model.HealthStatus
	Reset()
}

// Handler serves the operator endpoints: liveness, the health snapshot
// and the manual counter reset.
type Handler struct {
	watchdog Watchdog
	logger   *zap.Logger
}

func NewHandler(w Watchdog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{watchdog: w, logger: logger}
}

// Register attaches the admin routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/admin/status", h.handleStatus)
	mux.HandleFunc("/admin/reset", h.handleReset)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.watchdog.Status())
}

// handleReset clears the failure counter and both gates. It exists for
// the operator who has fixed the upstream and does not want to wait a
// polling round for recovery.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	before := h.watchdog.Status()
	h.watchdog.Reset()
	h.logger.Info("health state reset via admin endpoint",
		zap.String("remote", r.RemoteAddr),
		zap.Int("failure_count_before", before.FailureCount))
	writeJSON(w, h.watchdog.Status())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
