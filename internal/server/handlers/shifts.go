package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/shiftkeeper/internal/server/storage"
	"github.com/iudanet/shiftkeeper/internal/validation"
	"github.com/iudanet/shiftkeeper/pkg/api"
)

// ChangeFeed публикует изменения смен и обслуживает websocket подписки
type ChangeFeed interface {
	Publish(ownerID string, ev api.ChangeEvent)
	ServeWS(w http.ResponseWriter, r *http.Request, ownerID string)
}

// ShiftHandler handles shift CRUD and the change feed
type ShiftHandler struct {
	logger  *slog.Logger
	storage storage.ShiftStorage
	feed    ChangeFeed
	now     func() time.Time
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(logger *slog.Logger, shiftStorage storage.ShiftStorage, feed ChangeFeed) *ShiftHandler {
	return &ShiftHandler{
		logger:  logger,
		storage: shiftStorage,
		feed:    feed,
		now:     time.Now,
	}
}

// List обрабатывает GET /api/v1/shifts
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	shifts, err := h.storage.ListShifts(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shifts", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListShiftsResponse{Shifts: make([]api.Shift, 0, len(shifts))}
	for _, s := range shifts {
		resp.Shifts = append(resp.Shifts, api.ShiftFromModel(s))
	}

	h.logger.DebugContext(ctx, "shifts listed", slog.String("user_id", userID), slog.Int("count", len(resp.Shifts)))
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Upsert обрабатывает PUT /api/v1/shifts/{id}.
// Владелец всегда берется из токена; origin - из тела или заголовка X-Client-ID.
func (h *ShiftHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "shift id is required", http.StatusBadRequest)
		return
	}

	var req api.Shift
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode shift", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		req.ID = id
	}
	if req.ID != id {
		sendError(h.logger, w, "shift id in body does not match path", http.StatusBadRequest)
		return
	}
	if req.OwnerID != "" && req.OwnerID != userID {
		h.logger.WarnContext(ctx, "shift owner mismatch",
			slog.String("user_id", userID),
			slog.String("owner_id", req.OwnerID),
			slog.String("id", id))
		sendError(h.logger, w, "shift belongs to another user", http.StatusForbidden)
		return
	}

	shift := req.ToModel()
	shift.OwnerID = userID
	if shift.OriginClientID == "" {
		shift.OriginClientID = r.Header.Get(api.ClientIDHeader)
	}

	now := h.now().UTC().Truncate(time.Millisecond)
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	if shift.UpdatedAt.IsZero() {
		shift.UpdatedAt = now
	}
	shift.CreatedAt = shift.CreatedAt.UTC().Truncate(time.Millisecond)
	shift.UpdatedAt = shift.UpdatedAt.UTC().Truncate(time.Millisecond)

	if err := validation.ValidateShift(shift); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	created, err := h.storage.UpsertShift(ctx, shift)
	if err != nil {
		if errors.Is(err, storage.ErrShiftNotFound) {
			sendError(h.logger, w, "shift not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to save shift", slog.String("id", id), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	stored := api.ShiftFromModel(shift)

	changeType, status := api.ChangeUpdate, http.StatusOK
	if created {
		changeType, status = api.ChangeInsert, http.StatusCreated
	}

	h.feed.Publish(userID, api.ChangeEvent{
		At:             now,
		Record:         &stored,
		Type:           changeType,
		OriginClientID: shift.OriginClientID,
	})

	h.logger.InfoContext(ctx, "shift saved",
		slog.String("user_id", userID),
		slog.String("id", id),
		slog.String("date", shift.Date),
		slog.String("change", string(changeType)))

	sendJSON(h.logger, w, stored, status)
}

// Delete обрабатывает DELETE /api/v1/shifts/{id}
func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "shift id is required", http.StatusBadRequest)
		return
	}

	// Снимок нужен подписчикам, чтобы знать дату удаленной смены
	snapshot, err := h.storage.GetShift(ctx, userID, id)
	if err == nil {
		err = h.storage.DeleteShift(ctx, userID, id)
	}
	if err != nil {
		if errors.Is(err, storage.ErrShiftNotFound) {
			sendError(h.logger, w, "shift not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete shift", slog.String("id", id), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	record := api.ShiftFromModel(snapshot)
	origin := r.Header.Get(api.ClientIDHeader)

	h.feed.Publish(userID, api.ChangeEvent{
		At:             h.now().UTC().Truncate(time.Millisecond),
		Record:         &record,
		Type:           api.ChangeDelete,
		OriginClientID: origin,
	})

	h.logger.InfoContext(ctx, "shift deleted", slog.String("user_id", userID), slog.String("id", id))

	w.WriteHeader(http.StatusNoContent)
}

// Changes обрабатывает GET /api/v1/shifts/changes (websocket)
func (h *ShiftHandler) Changes(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.feed.ServeWS(w, r, userID)
}
