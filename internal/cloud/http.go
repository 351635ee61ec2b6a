package cloud

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/auth"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/save"
)

// Handler exposes the store contract over HTTP. Both routes sit behind
// auth.Service.RequireAPI, so the user is always present in context.
type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// SaveHandler handles POST /api/cloud/save. The body is the same textual save
// payload the local codec produces; it is validated before storage so a
// corrupt client can never poison the cloud copy.
func (h *Handler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "read body")
		return
	}
	if _, _, err := save.Import(string(body)); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid save payload")
		return
	}

	rec, err := h.store.Save(u.ID, json.RawMessage(body))
	if err != nil {
		h.logger.Error("cloud save failed", zap.Error(err), zap.String("user_id", u.ID))
		writeErr(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":   rec.Version,
		"updatedAt": rec.UpdatedAt,
	})
}

// LoadHandler handles GET /api/cloud/load; 404 when the user has no cloud save.
func (h *Handler) LoadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	rec, err := h.store.Load(u.ID)
	if err != nil {
		if errors.Is(err, ErrNoSave) {
			writeErr(w, http.StatusNotFound, "no cloud save")
			return
		}
		h.logger.Error("cloud load failed", zap.Error(err), zap.String("user_id", u.ID))
		writeErr(w, http.StatusInternalServerError, "load failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
