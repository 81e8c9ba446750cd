package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"lockedflow/internal/core/loop"
	"lockedflow/internal/core/timer"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller is the timer surface the API needs. loop.Driver implements it.
type Controller interface {
	Snapshot() timer.Snapshot
	Do(ctx context.Context, fn func(*timer.Engine)) error
}

// maxTargetSeconds is the largest target a time.Duration can hold.
var maxTargetSeconds = float64(math.MaxInt64) / float64(time.Second)

var commands = map[string]func(*timer.Engine){
	"start": (*timer.Engine).Start,
	"pause": (*timer.Engine).Pause,
	"stop":  (*timer.Engine).Stop,
	"reset": (*timer.Engine).Reset,
}

// Handler serves timer status and commands over HTTP.
type Handler struct {
	controller Controller
	gatherer   prometheus.Gatherer
}

// NewHandler creates a Handler. A nil gatherer disables /metrics.
func NewHandler(controller Controller, gatherer prometheus.Gatherer) *Handler {
	return &Handler{controller: controller, gatherer: gatherer}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/status", h.Status).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/timer/target", h.SetTarget).Methods("PUT")
	r.HandleFunc("/timer/{command}", h.Command).Methods("POST")
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
}

// Router returns a new router with all routes registered.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

// StatusResponse is the JSON body of /status and of every command.
type StatusResponse struct {
	State         timer.State `json:"state"`
	ElapsedMs     int64       `json:"elapsed_ms"`
	AccumulatedMs int64       `json:"accumulated_ms"`
	TargetMs      *int64      `json:"target_ms"`
	RemainingMs   *int64      `json:"remaining_ms"`
	Progress      float64     `json:"progress_percent"`
}

type targetRequest struct {
	Seconds *float64 `json:"seconds"`
}

// NewStatusResponse converts snapshot to its wire form.
func NewStatusResponse(snapshot timer.Snapshot) StatusResponse {
	response := StatusResponse{
		State:         snapshot.State,
		ElapsedMs:     snapshot.Elapsed.Milliseconds(),
		AccumulatedMs: snapshot.Accumulated.Milliseconds(),
		Progress:      snapshot.Progress,
	}
	if snapshot.HasTarget {
		target := snapshot.Target.Milliseconds()
		remaining := snapshot.Remaining.Milliseconds()
		response.TargetMs = &target
		response.RemainingMs = &remaining
	}
	return response
}

// Status returns the latest snapshot.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewStatusResponse(h.controller.Snapshot()))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Command runs start, pause, stop or reset.
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["command"]
	apply, ok := commands[name]
	if !ok {
		http.Error(w, "unknown command: "+name, http.StatusNotFound)
		return
	}
	h.run(w, r, apply)
}

// SetTarget sets or clears the countdown target.
func (h *Handler) SetTarget(w http.ResponseWriter, r *http.Request) {
	var request targetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if request.Seconds == nil {
		h.run(w, r, (*timer.Engine).ClearTargetDuration)
		return
	}
	if *request.Seconds < 0 {
		http.Error(w, "seconds must not be negative", http.StatusBadRequest)
		return
	}
	if math.IsNaN(*request.Seconds) || *request.Seconds >= maxTargetSeconds {
		http.Error(w, "seconds out of range", http.StatusBadRequest)
		return
	}
	target := time.Duration(*request.Seconds * float64(time.Second))
	h.run(w, r, func(engine *timer.Engine) {
		engine.SetTargetDuration(target)
	})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, apply func(*timer.Engine)) {
	var snapshot timer.Snapshot
	err := h.controller.Do(r.Context(), func(engine *timer.Engine) {
		apply(engine)
		snapshot = engine.Snapshot()
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, loop.ErrNotRunning) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, NewStatusResponse(snapshot))
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
