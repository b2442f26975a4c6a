package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pywhiz/internal/cache"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	contentCacheService  = "content"
	defaultContentTTL    = 10 * time.Minute
	milestoneListCacheID = "active"
)

// ContentService serves the published curriculum through a read-through cache.
type ContentService interface {
	ListMilestones(ctx context.Context) ([]*domain.Milestone, error)
	GetLearnContent(ctx context.Context, milestoneID string) ([]*domain.LearnContent, error)
	ListCodeQuestions(ctx context.Context, milestoneID string) ([]*domain.CodeQuestion, error)
	ListMCQQuestions(ctx context.Context, milestoneID string) ([]*domain.MCQQuestion, error)
}

type contentService struct {
	repo  domain.ContentRepository
	cache domain.Cache // nil disables caching
	ttl   time.Duration
	group singleflight.Group
}

func NewContentService(repo domain.ContentRepository, c domain.Cache, ttl time.Duration) ContentService {
	if ttl <= 0 {
		ttl = defaultContentTTL
	}
	return &contentService{repo: repo, cache: c, ttl: ttl}
}

func (s *contentService) ListMilestones(ctx context.Context) ([]*domain.Milestone, error) {
	key := cache.GenerateCacheKey(contentCacheService, "milestones", milestoneListCacheID)
	items, err := readThrough(ctx, s, key, func(ctx context.Context) ([]*domain.Milestone, error) {
		return s.repo.ListActiveMilestones(ctx)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list milestones", err)
	}
	return items, nil
}

func (s *contentService) GetLearnContent(ctx context.Context, milestoneID string) ([]*domain.LearnContent, error) {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}
	key := cache.GenerateCacheKey(contentCacheService, "learn", milestoneID)
	items, err := readThrough(ctx, s, key, func(ctx context.Context) ([]*domain.LearnContent, error) {
		return s.repo.ListLearnContents(ctx, milestoneID)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list learn content", err)
	}
	return items, nil
}

func (s *contentService) ListCodeQuestions(ctx context.Context, milestoneID string) ([]*domain.CodeQuestion, error) {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}
	key := cache.GenerateCacheKey(contentCacheService, "code_questions", milestoneID)
	items, err := readThrough(ctx, s, key, func(ctx context.Context) ([]*domain.CodeQuestion, error) {
		return s.repo.ListCodeQuestions(ctx, milestoneID)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list code questions", err)
	}
	return items, nil
}

func (s *contentService) ListMCQQuestions(ctx context.Context, milestoneID string) ([]*domain.MCQQuestion, error) {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}
	key := cache.GenerateCacheKey(contentCacheService, "mcq_questions", milestoneID)
	items, err := readThrough(ctx, s, key, func(ctx context.Context) ([]*domain.MCQQuestion, error) {
		return s.repo.ListMCQQuestions(ctx, milestoneID)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list MCQ questions", err)
	}
	return items, nil
}

func (s *contentService) requireMilestone(ctx context.Context, milestoneID string) error {
	key := cache.GenerateCacheKey(contentCacheService, "milestone", milestoneID)
	m, err := readThrough(ctx, s, key, func(ctx context.Context) (*domain.Milestone, error) {
		return s.repo.GetMilestoneByID(ctx, milestoneID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to load milestone", err)
	}
	if m == nil || !m.IsActive {
		return domain.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
	}
	return nil
}

// readThrough serves key from the cache, falling back to load on a miss or a cache failure.
// Concurrent misses for the same key share one load.
func readThrough[T any](ctx context.Context, s *contentService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			errDecode := json.Unmarshal([]byte(raw), &v)
			if errDecode == nil {
				return v, nil
			}
			logger.Get().Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(errDecode))
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("Content cache read failed, using database", zap.String("key", key), zap.Error(err))
		}
	}

	res, err, _ := s.group.Do(key, func() (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if data, errEncode := json.Marshal(v); errEncode == nil {
				if errSet := s.cache.Set(ctx, key, string(data), s.ttl); errSet != nil {
					logger.Get().Warn("Content cache write failed", zap.String("key", key), zap.Error(errSet))
				}
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type from singleflight for %s: %T", key, res)
	}
	return v, nil
}
