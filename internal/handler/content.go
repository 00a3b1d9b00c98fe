package handler

import (
	"log/slog"
	"net/http"

	"github.com/makerburg/makerburg/internal/service"
)

// ContentHandler serves the published catalog over JSON.
//
// Four kinds, two operations each (list + get by ID). The handlers are
// thin on purpose: decode the path, call the service, write the result.
type ContentHandler struct {
	content *service.ContentService
	logger  *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(content *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

// HandleListStories returns all published stories.
//
// HTTP: GET /api/stories
func (h *ContentHandler) HandleListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.content.ListStories(r.Context())
	if err != nil {
		h.logger.Error("listing stories failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

// HandleGetStory returns a single story.
//
// HTTP: GET /api/stories/{id}
func (h *ContentHandler) HandleGetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.content.GetStory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// HandleListOpportunities returns all published opportunities.
//
// HTTP: GET /api/opportunities
func (h *ContentHandler) HandleListOpportunities(w http.ResponseWriter, r *http.Request) {
	opportunities, err := h.content.ListOpportunities(r.Context())
	if err != nil {
		h.logger.Error("listing opportunities failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunities)
}

// HandleGetOpportunity returns a single opportunity.
//
// HTTP: GET /api/opportunities/{id}
func (h *ContentHandler) HandleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	opportunity, err := h.content.GetOpportunity(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

// HandleListVideos returns all published videos.
//
// HTTP: GET /api/videos
func (h *ContentHandler) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.content.ListVideos(r.Context())
	if err != nil {
		h.logger.Error("listing videos failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

// HandleGetVideo returns a single video.
//
// HTTP: GET /api/videos/{id}
func (h *ContentHandler) HandleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.content.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// HandleListCultureEntries returns all published culture entries.
//
// HTTP: GET /api/culture
func (h *ContentHandler) HandleListCultureEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.content.ListCultureEntries(r.Context())
	if err != nil {
		h.logger.Error("listing culture entries failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetCultureEntry returns a single culture entry.
//
// HTTP: GET /api/culture/{id}
func (h *ContentHandler) HandleGetCultureEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.content.GetCultureEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
