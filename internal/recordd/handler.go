package recordd

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/httputil"
)

// Handler serves the collection REST surface. Responses are bare JSON
// values rather than the envelope the service APIs use: clients treat the
// record server like a plain document store.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a record server handler.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /{collection}. Query parameters filter by exact match on
// top-level fields, e.g. /users?email=a@b.co.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	records := h.store.List(collection, r.URL.Query())
	writeRaw(w, http.StatusOK, records)
}

// Get handles GET /{collection}/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	rec, err := h.store.Get(collection, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	writeRaw(w, http.StatusOK, rec)
}

// Create handles POST /{collection}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	rec, err := decodeRecord(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := h.store.Create(collection, rec); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "record created",
		slog.String("collection", collection),
		slog.String("id", recordID(rec)),
	)
	writeRaw(w, http.StatusCreated, rec)
}

// Patch handles PATCH /{collection}/{id}: a shallow top-level merge.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	overlay, err := decodeRecord(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	merged, err := h.store.Patch(collection, id, overlay)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "record patched",
		slog.String("collection", collection),
		slog.String("id", id),
	)
	writeRaw(w, http.StatusOK, merged)
}

// Put handles PUT /{collection}/{id}: a wholesale replace.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	rec, err := decodeRecord(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	replaced, err := h.store.Replace(collection, id, rec)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	writeRaw(w, http.StatusOK, replaced)
}

// Delete handles DELETE /{collection}/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(collection, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRecord(r *http.Request) (Record, error) {
	defer r.Body.Close()
	var rec Record
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&rec); err != nil {
		return nil, apperrors.InvalidInput("request body must be a JSON object")
	}
	return rec, nil
}

func writeRaw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
