package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/makerburg/makerburg/internal/auth"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
)

// SavedHandler manages a user's bookmarks over the REST API.
//
// All routes here sit behind RequireAuth - a bookmark belongs to exactly
// one account, so there is no anonymous variant of these endpoints.
//
// Like the auth handler's user lookups, this talks to the repository
// directly: the storage layer already enforces the only rule that matters
// (one row per user+kind+id), so a service layer would just forward calls.
type SavedHandler struct {
	saved  repository.SavedItemRepository
	logger *slog.Logger
}

// NewSavedHandler creates a SavedHandler.
func NewSavedHandler(saved repository.SavedItemRepository, logger *slog.Logger) *SavedHandler {
	return &SavedHandler{saved: saved, logger: logger}
}

// refPayload is the wire shape of a saved reference in both directions.
type refPayload struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// HandleList returns the user's saved references, most recently saved first.
//
// HTTP: GET /api/saved
// RESPONSE: [{"kind":"story","id":"s1"}, ...]
func (h *SavedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	items, err := h.saved.ListSavedItems(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing saved items failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	// Empty list, not null - clients iterate the response without nil checks.
	refs := make([]refPayload, 0, len(items))
	for _, item := range items {
		refs = append(refs, refPayload{Kind: string(item.ItemKind), ID: item.ItemID})
	}
	writeJSON(w, http.StatusOK, refs)
}

// HandleAdd saves a reference for the user.
//
// HTTP: POST /api/saved
// REQUEST BODY: {"kind":"story","id":"s1"}
//
// IDEMPOTENT: saving something already saved is not an error. The status
// code tells the two cases apart - 201 for a new bookmark, 200 when it was
// already there - so retried requests never fail.
func (h *SavedHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req refPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	ref := model.ContentRef{Kind: model.Kind(req.Kind), ID: req.ID}
	if !ref.Kind.Valid() || ref.ID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "a valid kind and id are required",
		})
		return
	}

	created, err := h.saved.AddSavedItem(r.Context(), userID, ref)
	if err != nil {
		h.logger.Error("saving item failed",
			slog.String("userID", userID),
			slog.String("ref", ref.Key()),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, req)
}

// HandleRemove deletes a saved reference.
//
// HTTP: DELETE /api/saved/{kind}/{id}
//
// Removing something that was never saved still returns 204 - the caller
// wanted it gone and it is gone.
func (h *SavedHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	ref := model.ContentRef{
		Kind: model.Kind(r.PathValue("kind")),
		ID:   r.PathValue("id"),
	}
	if !ref.Kind.Valid() || ref.ID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "a valid kind and id are required",
		})
		return
	}

	if err := h.saved.RemoveSavedItem(r.Context(), userID, ref); err != nil {
		h.logger.Error("removing saved item failed",
			slog.String("userID", userID),
			slog.String("ref", ref.Key()),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
