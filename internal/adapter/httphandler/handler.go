package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/shop-admin/internal/core/port"
)

// GET v1/activity?username=name[&limit=n] (200 OK, 400 Bad request)

type ActivityHandler struct {
	reader port.ActivityReader
}

func RegisterActivity(mux *http.ServeMux, reader port.ActivityReader) {
	h := ActivityHandler{reader}
	mux.HandleFunc("GET /v1/activity", h.GetActivity)
}

func (h ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetActivity"
	log := slog.With("op", op)

	q := r.URL.Query()
	username := q.Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	var limit int
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	evts, err := h.reader.ReadActivity(r.Context(), username, limit)
	if err != nil {
		http.Error(
			w, "failed to read activity", http.StatusServiceUnavailable,
		)
		log.Error("failed to read activity", "err", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(activityFromDomain(evts)); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}

	log.Info("served", "username", username, "nEvents", len(evts))
}
