package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canvasgraph/canvasgraph/pkg/canvas"
	"github.com/canvasgraph/canvasgraph/pkg/validation"
)

// server binds HTTP handlers to one canvas runtime.
type server struct {
	runtime *canvas.Runtime
}

func (s *server) createCanvas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if _, err := s.runtime.NewCanvas(r.Context(), req.ID, req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": req.ID})
}

func (s *server) compilePreview(w http.ResponseWriter, r *http.Request) {
	forceReload := r.URL.Query().Get("reload") == "true"
	doc, err := s.runtime.Compile(r.Context(), r.PathValue("id"), r.PathValue("preview"), forceReload)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *server) mutate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnchorID string       `json:"anchor_id,omitempty"`
		Batch    canvas.Batch `json:"batch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := s.runtime.Mutate(r.Context(), r.PathValue("id"), req.AnchorID, req.Batch)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *server) sync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		States   map[string]canvas.InteractionState `json:"states,omitempty"`
		Snapshot *canvas.Snapshot                   `json:"snapshot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Snapshot == nil {
		http.Error(w, "snapshot is required", http.StatusBadRequest)
		return
	}
	result, err := s.runtime.Sync(r.Context(), r.PathValue("id"), req.States, req.Snapshot)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *server) persist(w http.ResponseWriter, r *http.Request) {
	if err := s.runtime.Persist(r.Context(), r.PathValue("id")); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) restore(w http.ResponseWriter, r *http.Request) {
	result, err := s.runtime.Restore(r.Context(), r.PathValue("id"), nil)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, result)
}

func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, canvas.ErrCanvasNotFound):
		status = http.StatusNotFound
	case errors.Is(err, canvas.ErrEmptyBatch), errors.Is(err, canvas.ErrSnapshotEmpty):
		status = http.StatusBadRequest
	}
	var batchErr *validation.BatchError
	if errors.As(err, &batchErr) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
