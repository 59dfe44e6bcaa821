package lessons

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fetcher is the subset of the API client the lesson service needs.
type Fetcher interface {
	Lessons(ctx context.Context) (json.RawMessage, error)
	LessonBySlug(ctx context.Context, slug string) (json.RawMessage, error)
}

// Service resolves lessons from the backend with the embedded catalog
// as offline fallback.
type Service struct {
	fetcher Fetcher
}

// NewService creates a lesson Service. fetcher may be nil, in which
// case only the embedded catalog is served.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// All returns the full lesson catalog: the backend's if reachable,
// otherwise the embedded one. The second return reports whether the
// result came from the backend.
func (s *Service) All(ctx context.Context) ([]Lesson, bool, error) {
	if s.fetcher != nil {
		raw, err := s.fetcher.Lessons(ctx)
		if err == nil {
			if fetched, derr := DecodeList(raw); derr == nil && len(fetched) > 0 {
				return fetched, true, nil
			}
		}
	}

	local, err := Catalog()
	if err != nil {
		return nil, false, fmt.Errorf("load lesson catalog: %w", err)
	}
	return local, false, nil
}

// BySlug returns a single lesson, preferring the backend copy.
func (s *Service) BySlug(ctx context.Context, slug string) (*Lesson, error) {
	if s.fetcher != nil {
		if raw, err := s.fetcher.LessonBySlug(ctx, slug); err == nil {
			if lesson, derr := Decode(raw); derr == nil {
				return lesson, nil
			}
		}
	}

	local, err := Catalog()
	if err != nil {
		return nil, err
	}
	for i := range local {
		if local[i].Slug == slug {
			return &local[i], nil
		}
	}
	return nil, fmt.Errorf("lesson %q not found", slug)
}
