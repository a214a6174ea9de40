package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/internal/server/storage"
	"github.com/iudanet/missionflow/internal/validation"
	"github.com/iudanet/missionflow/pkg/api"
)

// maxBodySize ограничение размера тела запроса
const maxBodySize = 1 << 20

// Publisher получает изменения строк для realtime канала
type Publisher interface {
	Publish(event api.ChangeEvent)
}

// RestHandler обрабатывает CRUD запросы к коллекциям
type RestHandler struct {
	logger    *slog.Logger
	storage   storage.RecordStorage
	publisher Publisher
	clock     clock.Clock
}

// NewRestHandler создает handler коллекций.
// publisher может быть nil, тогда изменения никуда не транслируются.
func NewRestHandler(logger *slog.Logger, s storage.RecordStorage, publisher Publisher, c clock.Clock) *RestHandler {
	if c == nil {
		c = clock.System
	}
	return &RestHandler{
		logger:    logger,
		storage:   s,
		publisher: publisher,
		clock:     c,
	}
}

// Register регистрирует маршруты /api/v1/rest/ в mux
func (h *RestHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("GET /api/v1/rest/{collection}", wrap(http.HandlerFunc(h.Select)))
	mux.Handle("POST /api/v1/rest/{collection}", wrap(http.HandlerFunc(h.Insert)))
	mux.Handle("PATCH /api/v1/rest/{collection}/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("PUT /api/v1/rest/{collection}/{id}", wrap(http.HandlerFunc(h.Upsert)))
	mux.Handle("DELETE /api/v1/rest/{collection}/{id}", wrap(http.HandlerFunc(h.Delete)))
}

// Select обрабатывает GET /api/v1/rest/{collection}
func (h *RestHandler) Select(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	records, err := h.storage.Select(r.Context(), collection, q)
	if err != nil {
		h.storageError(w, "select", collection, err)
		return
	}
	if records == nil {
		records = []api.Record{}
	}

	writeJSON(w, h.logger, http.StatusOK, records)
}

// Insert обрабатывает POST /api/v1/rest/{collection}
func (h *RestHandler) Insert(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	record, ok := h.decode(w, r)
	if !ok {
		return
	}
	if raw, present := record[models.IdentityField]; present {
		id, isString := raw.(string)
		if !isString || validation.ValidateIdentity(id) != nil {
			writeError(w, h.logger, http.StatusBadRequest, "invalid id", "id must be a non-empty string")
			return
		}
	}

	saved, err := h.storage.Insert(r.Context(), collection, record)
	if err != nil {
		h.storageError(w, "insert", collection, err)
		return
	}

	h.publish(api.ChangeInsert, collection, saved, "")
	h.logger.Debug("Record inserted", "collection", collection, "id", saved.ID())
	writeJSON(w, h.logger, http.StatusCreated, saved)
}

// Update обрабатывает PATCH /api/v1/rest/{collection}/{id}
func (h *RestHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := h.row(w, r)
	if !ok {
		return
	}

	patch, ok := h.decode(w, r)
	if !ok {
		return
	}
	delete(patch, models.IdentityField)

	saved, err := h.storage.Update(r.Context(), collection, id, patch)
	if err != nil {
		h.storageError(w, "update", collection, err)
		return
	}

	h.publish(api.ChangeUpdate, collection, saved, id)
	writeJSON(w, h.logger, http.StatusOK, saved)
}

// Upsert обрабатывает PUT /api/v1/rest/{collection}/{id}
func (h *RestHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := h.row(w, r)
	if !ok {
		return
	}

	record, ok := h.decode(w, r)
	if !ok {
		return
	}
	if bodyID, present := record[models.IdentityField]; present && bodyID != id {
		writeError(w, h.logger, http.StatusBadRequest, "id mismatch", "id in body differs from path")
		return
	}

	saved, created, err := h.storage.Upsert(r.Context(), collection, id, record)
	if err != nil {
		h.storageError(w, "upsert", collection, err)
		return
	}

	status, change := http.StatusOK, api.ChangeUpdate
	if created {
		status, change = http.StatusCreated, api.ChangeInsert
	}
	h.publish(change, collection, saved, id)
	writeJSON(w, h.logger, status, saved)
}

// Delete обрабатывает DELETE /api/v1/rest/{collection}/{id}.
// Удаление отсутствующей строки тоже отвечает 204.
func (h *RestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := h.row(w, r)
	if !ok {
		return
	}

	removed, err := h.storage.Delete(r.Context(), collection, id)
	if err != nil {
		h.storageError(w, "delete", collection, err)
		return
	}

	if removed {
		h.publish(api.ChangeDelete, collection, api.Record{models.IdentityField: id}, id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RestHandler) collection(w http.ResponseWriter, r *http.Request) (string, bool) {
	collection := r.PathValue("collection")
	if err := validation.ValidateCollection(collection); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid collection", err.Error())
		return "", false
	}
	return collection, true
}

func (h *RestHandler) row(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	collection, ok := h.collection(w, r)
	if !ok {
		return "", "", false
	}
	id := r.PathValue("id")
	if err := validation.ValidateIdentity(id); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid id", err.Error())
		return "", "", false
	}
	return collection, id, true
}

func (h *RestHandler) decode(w http.ResponseWriter, r *http.Request) (api.Record, bool) {
	var record api.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&record); err != nil {
		h.logger.Warn("Failed to decode record", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body", "body must be a JSON object")
		return nil, false
	}
	if record == nil {
		record = api.Record{}
	}
	return record, true
}

func (h *RestHandler) storageError(w http.ResponseWriter, op, collection string, err error) {
	switch {
	case errors.Is(err, storage.ErrRecordNotFound):
		writeError(w, h.logger, http.StatusNotFound, "record not found", "")
	case errors.Is(err, storage.ErrRecordExists):
		writeError(w, h.logger, http.StatusConflict, "record already exists", "")
	case errors.Is(err, storage.ErrInvalidQuery):
		writeError(w, h.logger, http.StatusBadRequest, "invalid query", err.Error())
	default:
		h.logger.Error("Storage operation failed", "op", op, "collection", collection, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *RestHandler) publish(change api.ChangeType, collection string, record api.Record, oldID string) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(api.ChangeEvent{
		Type:            change,
		Collection:      collection,
		Record:          maps.Clone(record),
		OldID:           oldID,
		CommitTimestamp: h.clock.Now(),
	})
}
