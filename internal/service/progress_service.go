package service

import (
	"context"
	"fmt"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"go.uber.org/zap"
)

// ProgressService owns the per-user score and completion sets.
// Every score change goes through a scored-unit claim, so each unit pays out at most once.
type ProgressService interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProgress, error)
	GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
	RecordCorrect(ctx context.Context, userID string, unit domain.ScoreUnit, points int) (bool, error)
	MarkMilestone(ctx context.Context, userID, milestoneID string, kind domain.MarkKind) (*domain.MarkResult, error)
	// CompleteMilestoneSet marks the milestone completed and claims unit in one transaction.
	// Nothing is paid when the milestone was already completed by any path.
	CompleteMilestoneSet(ctx context.Context, userID, milestoneID string, unit domain.ScoreUnit, points int) (bool, error)
	UpdateCurrentMilestone(ctx context.Context, userID, milestoneID string) error
}

type progressService struct {
	progress domain.ProgressRepository
	content  domain.ContentRepository
	tx       domain.TransactionManager
	rewards  config.RewardsConfig
}

func NewProgressService(
	progress domain.ProgressRepository,
	content domain.ContentRepository,
	tx domain.TransactionManager,
	rewards config.RewardsConfig,
) ProgressService {
	return &progressService{
		progress: progress,
		content:  content,
		tx:       tx,
		rewards:  rewards,
	}
}

func (s *progressService) GetOrCreate(ctx context.Context, userID string) (*domain.UserProgress, error) {
	if err := s.progress.EnsureProgress(ctx, userID); err != nil {
		return nil, domain.NewInternalError("Failed to create progress", err)
	}

	p, err := s.progress.GetProgress(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load progress", err)
	}
	if p == nil {
		return nil, domain.NewInternalError("Progress row missing after create", nil)
	}
	if p.CurrentMilestoneID != "" {
		return p, nil
	}

	first, err := s.content.GetFirstActiveMilestone(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load first milestone", err)
	}
	if first == nil {
		return p, nil
	}
	if err := s.progress.SetCurrentMilestoneIfEmpty(ctx, userID, first.ID); err != nil {
		return nil, domain.NewInternalError("Failed to set current milestone", err)
	}
	p.CurrentMilestoneID = first.ID
	return p, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	return s.GetOrCreate(ctx, userID)
}

func (s *progressService) RecordCorrect(ctx context.Context, userID string, unit domain.ScoreUnit, points int) (bool, error) {
	var awarded bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		awarded, err = s.claim(ctx, userID, unit, points)
		return err
	})
	if err != nil {
		return false, err
	}
	if awarded {
		logger.Get().Info("Score awarded",
			zap.String("userID", userID),
			zap.String("unit", unit.String()),
			zap.Int("points", points))
	}
	return awarded, nil
}

// claim must run inside a transaction.
func (s *progressService) claim(ctx context.Context, userID string, unit domain.ScoreUnit, points int) (bool, error) {
	if err := s.progress.EnsureProgress(ctx, userID); err != nil {
		return false, fmt.Errorf("ensure progress: %w", err)
	}
	inserted, err := s.progress.ClaimScoredUnit(ctx, userID, unit, points)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", unit, err)
	}
	if !inserted {
		return false, nil
	}
	if err := s.progress.AddScore(ctx, userID, points); err != nil {
		return false, fmt.Errorf("add score for %s: %w", unit, err)
	}
	return true, nil
}

func (s *progressService) MarkMilestone(ctx context.Context, userID, milestoneID string, kind domain.MarkKind) (*domain.MarkResult, error) {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}

	result := &domain.MarkResult{MilestoneID: milestoneID, Kind: kind}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.progress.EnsureProgress(ctx, userID); err != nil {
			return fmt.Errorf("ensure progress: %w", err)
		}
		recorded, err := s.progress.AddMark(ctx, userID, milestoneID, kind)
		if err != nil {
			return fmt.Errorf("add %s mark: %w", kind, err)
		}
		result.Recorded = recorded

		kinds, err := s.progress.ListMarkKinds(ctx, userID, milestoneID)
		if err != nil {
			return fmt.Errorf("list marks: %w", err)
		}
		if !hasAllTracks(kinds) {
			return nil
		}
		result.MilestoneCompleted = true

		// A milestone already completed through its MCQ set earns no second bonus.
		entered, err := s.enterCompleted(ctx, userID, milestoneID)
		if err != nil || !entered {
			return err
		}
		unit := domain.ScoreUnit{Type: domain.UnitMilestone, ID: milestoneID}
		result.BonusAwarded, err = s.claim(ctx, userID, unit, s.rewards.MilestoneCompleted)
		return err
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to record milestone progress", err)
	}

	if result.BonusAwarded {
		logger.Get().Info("Milestone completed",
			zap.String("userID", userID),
			zap.String("milestoneID", milestoneID),
			zap.Int("bonus", s.rewards.MilestoneCompleted))
	}
	return result, nil
}

func (s *progressService) CompleteMilestoneSet(ctx context.Context, userID, milestoneID string, unit domain.ScoreUnit, points int) (bool, error) {
	var awarded bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.progress.EnsureProgress(ctx, userID); err != nil {
			return fmt.Errorf("ensure progress: %w", err)
		}
		entered, err := s.enterCompleted(ctx, userID, milestoneID)
		if err != nil || !entered {
			return err
		}
		awarded, err = s.claim(ctx, userID, unit, points)
		return err
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}

// enterCompleted adds milestoneID to the completed set and reports whether it was absent before.
func (s *progressService) enterCompleted(ctx context.Context, userID, milestoneID string) (bool, error) {
	inserted, err := s.progress.AddMark(ctx, userID, milestoneID, domain.MarkCompletedMilestone)
	if err != nil {
		return false, fmt.Errorf("add completed_milestone mark: %w", err)
	}
	return inserted, nil
}

func (s *progressService) UpdateCurrentMilestone(ctx context.Context, userID, milestoneID string) error {
	if err := s.requireMilestone(ctx, milestoneID); err != nil {
		return err
	}
	if err := s.progress.EnsureProgress(ctx, userID); err != nil {
		return domain.NewInternalError("Failed to create progress", err)
	}
	if err := s.progress.SetCurrentMilestone(ctx, userID, milestoneID); err != nil {
		return domain.NewInternalError("Failed to update current milestone", err)
	}
	return nil
}

func (s *progressService) requireMilestone(ctx context.Context, milestoneID string) error {
	m, err := s.content.GetMilestoneByID(ctx, milestoneID)
	if err != nil {
		return domain.NewInternalError("Failed to load milestone", err)
	}
	if m == nil {
		return domain.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
	}
	return nil
}

func hasAllTracks(kinds []domain.MarkKind) bool {
	present := make(map[domain.MarkKind]bool, len(kinds))
	for _, k := range kinds {
		present[k] = true
	}
	for _, k := range domain.TrackKinds {
		if !present[k] {
			return false
		}
	}
	return true
}
