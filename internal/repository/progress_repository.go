package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pywhiz/internal/domain"
	"pywhiz/internal/repository/models"
)

// sqlxProgressRepository owns user_progress, user_milestone_marks and user_scored_units.
// Score only ever changes through a single-row "score = score + ?" update.
type sqlxProgressRepository struct {
	db DBTX
}

func NewSQLXProgressRepository(db DBTX) domain.ProgressRepository {
	return &sqlxProgressRepository{db: db}
}

func (r *sqlxProgressRepository) EnsureProgress(ctx context.Context, userID string) error {
	now := time.Now()
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO user_progress (user_id, score, created_at, updated_at) VALUES (?, 0, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`)
	if _, err := db.ExecContext(ctx, query, userID, now, now); err != nil {
		return fmt.Errorf("failed to ensure progress row: %w", err)
	}
	return nil
}

// GetProgress returns (nil, nil) when the user has no progress row yet.
func (r *sqlxProgressRepository) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	db := GetExecutor(ctx, r.db)

	var row models.UserProgress
	query := db.Rebind(`SELECT user_id, current_milestone_id, score, created_at, updated_at FROM user_progress WHERE user_id = ?`)
	if err := db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var marks []models.MilestoneMark
	query = db.Rebind(`SELECT milestone_id, kind FROM user_milestone_marks WHERE user_id = ? ORDER BY created_at, milestone_id`)
	if err := db.SelectContext(ctx, &marks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list milestone marks: %w", err)
	}

	progress := &domain.UserProgress{
		UserID:              row.UserID,
		CurrentMilestoneID:  row.CurrentMilestoneID.String,
		Score:               row.Score,
		WatchedVideos:       []string{},
		CompletedCode:       []string{},
		CompletedExercises:  []string{},
		CompletedMilestones: []string{},
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	for _, m := range marks {
		switch domain.MarkKind(m.Kind) {
		case domain.MarkWatchedVideo:
			progress.WatchedVideos = append(progress.WatchedVideos, m.MilestoneID)
		case domain.MarkCompletedCode:
			progress.CompletedCode = append(progress.CompletedCode, m.MilestoneID)
		case domain.MarkCompletedExercise:
			progress.CompletedExercises = append(progress.CompletedExercises, m.MilestoneID)
		case domain.MarkCompletedMilestone:
			progress.CompletedMilestones = append(progress.CompletedMilestones, m.MilestoneID)
		}
	}
	return progress, nil
}

func (r *sqlxProgressRepository) SetCurrentMilestone(ctx context.Context, userID, milestoneID string) error {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`UPDATE user_progress SET current_milestone_id = ?, updated_at = ? WHERE user_id = ?`)
	result, err := db.ExecContext(ctx, query, milestoneID, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set current milestone: %w", err)
	}
	return requireRow(result)
}

func (r *sqlxProgressRepository) SetCurrentMilestoneIfEmpty(ctx context.Context, userID, milestoneID string) error {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`UPDATE user_progress SET current_milestone_id = ?, updated_at = ? WHERE user_id = ? AND current_milestone_id IS NULL`)
	if _, err := db.ExecContext(ctx, query, milestoneID, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to initialise current milestone: %w", err)
	}
	return nil
}

// ClaimScoredUnit inserts the at-most-once guard row and reports whether this call created it.
func (r *sqlxProgressRepository) ClaimScoredUnit(ctx context.Context, userID string, unit domain.ScoreUnit, points int) (bool, error) {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO user_scored_units (user_id, unit_type, unit_id, points, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, unit_type, unit_id) DO NOTHING`)
	result, err := db.ExecContext(ctx, query, userID, string(unit.Type), unit.ID, points, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to claim scored unit %s: %w", unit, err)
	}
	return inserted(result)
}

func (r *sqlxProgressRepository) AddScore(ctx context.Context, userID string, points int) error {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`UPDATE user_progress SET score = score + ?, updated_at = ? WHERE user_id = ?`)
	result, err := db.ExecContext(ctx, query, points, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to add score: %w", err)
	}
	return requireRow(result)
}

func (r *sqlxProgressRepository) AddMark(ctx context.Context, userID, milestoneID string, kind domain.MarkKind) (bool, error) {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO user_milestone_marks (user_id, milestone_id, kind, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, milestone_id, kind) DO NOTHING`)
	result, err := db.ExecContext(ctx, query, userID, milestoneID, string(kind), time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to add %s mark: %w", kind, err)
	}
	return inserted(result)
}

func (r *sqlxProgressRepository) ListMarkKinds(ctx context.Context, userID, milestoneID string) ([]domain.MarkKind, error) {
	var kinds []string
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT kind FROM user_milestone_marks WHERE user_id = ? AND milestone_id = ?`)
	if err := db.SelectContext(ctx, &kinds, query, userID, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to list milestone marks: %w", err)
	}

	result := make([]domain.MarkKind, 0, len(kinds))
	for _, k := range kinds {
		result = append(result, domain.MarkKind(k))
	}
	return result, nil
}

func inserted(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
