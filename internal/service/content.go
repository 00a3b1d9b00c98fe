package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
)

// ContentService serves the published catalog: stories, opportunities,
// videos, and culture entries. Read-only - the catalog is editorial data
// loaded by seeding or an external pipeline, never written through the API.
type ContentService struct {
	content repository.ContentRepository
	logger  *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(content repository.ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{content: content, logger: logger}
}

func (s *ContentService) ListStories(ctx context.Context) ([]model.Story, error) {
	stories, err := s.content.ListStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	return stories, nil
}

func (s *ContentService) GetStory(ctx context.Context, id string) (*model.Story, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "story ID is required")
	}
	return s.content.GetStory(ctx, id)
}

func (s *ContentService) ListOpportunities(ctx context.Context) ([]model.Opportunity, error) {
	opportunities, err := s.content.ListOpportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing opportunities: %w", err)
	}
	return opportunities, nil
}

func (s *ContentService) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "opportunity ID is required")
	}
	return s.content.GetOpportunity(ctx, id)
}

func (s *ContentService) ListVideos(ctx context.Context) ([]model.Video, error) {
	videos, err := s.content.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return videos, nil
}

func (s *ContentService) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "video ID is required")
	}
	return s.content.GetVideo(ctx, id)
}

func (s *ContentService) ListCultureEntries(ctx context.Context) ([]model.CultureEntry, error) {
	entries, err := s.content.ListCultureEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing culture entries: %w", err)
	}
	return entries, nil
}

func (s *ContentService) GetCultureEntry(ctx context.Context, id string) (*model.CultureEntry, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "culture entry ID is required")
	}
	return s.content.GetCultureEntry(ctx, id)
}

// Resolve looks up the entity a saved reference points at. This is the one
// place that dispatches on every content kind - a saved list rendered with
// full entities calls through here per reference.
//
// Unknown kinds are a validation error; a missing entity surfaces the
// repository's ErrNotFound so callers can distinguish "deleted since saved"
// from a bad request.
func (s *ContentService) Resolve(ctx context.Context, ref model.ContentRef) (any, error) {
	switch ref.Kind {
	case model.KindStory:
		return s.content.GetStory(ctx, ref.ID)
	case model.KindOpportunity:
		return s.content.GetOpportunity(ctx, ref.ID)
	case model.KindVideo:
		return s.content.GetVideo(ctx, ref.ID)
	case model.KindCulture:
		return s.content.GetCultureEntry(ctx, ref.ID)
	default:
		return nil, apperror.ValidationFailed("kind", fmt.Sprintf("unknown content kind %q", ref.Kind))
	}
}
