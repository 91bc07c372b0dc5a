package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharivan/XSharp-sub001/internal/engine"
	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
	"github.com/sharivan/XSharp-sub001/pkg/api"
)

// DebugHandler exposes the internal state of the engine.
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes registers the debug endpoints.
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/touches", h.handleTouches)
	mux.HandleFunc("/debug/saves", h.handleSaves)
	mux.HandleFunc("/debug/save", h.handleSave)
	mux.HandleFunc("/debug/load", h.handleLoad)
}

// /debug/entities - every registered entity, including removed respawnables
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Instance.Entities())
}

// /debug/touches - touch events of the last committed tick
func (h *DebugHandler) handleTouches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Instance.Touches())
}

// /debug/saves - the save catalog
func (h *DebugHandler) handleSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.Service.Saves(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, saves)
}

// POST /debug/save {"slot": "..."}
func (h *DebugHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	p, ok := readSlot(w, r)
	if !ok {
		return
	}
	if p.Slot == "" {
		http.Error(w, "slot is required", http.StatusBadRequest)
		return
	}
	view, err := h.Service.Save(r.Context(), p.Slot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

// POST /debug/load {"slot": "..."} or {"path": "..."}
func (h *DebugHandler) handleLoad(w http.ResponseWriter, r *http.Request) {
	p, ok := readSlot(w, r)
	if !ok {
		return
	}
	var err error
	if p.Path != "" {
		err = h.Service.LoadFile(p.Path)
	} else {
		err = h.Service.Load(r.Context(), p.Slot)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"tick": h.Service.Instance.Tick()})
}

func readSlot(w http.ResponseWriter, r *http.Request) (api.SlotPayload, bool) {
	var p api.SlotPayload
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return p, false
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return p, false
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return p, false
	}
	return p, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNoSave):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrNoCatalog):
		status = http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrBadMagic), errors.Is(err, storage.ErrUnsupportedVersion),
		errors.Is(err, storage.ErrFieldMismatch), errors.Is(err, storage.ErrCorrupt):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// the local debug client is served from another origin
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
