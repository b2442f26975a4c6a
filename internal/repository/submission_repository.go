package repository

import (
	"context"
	"fmt"
	"time"

	"pywhiz/internal/domain"
	"pywhiz/internal/repository/models"
)

// sqlxSubmissionRepository stores the append-only code submission history.
type sqlxSubmissionRepository struct {
	db DBTX
}

func NewSQLXSubmissionRepository(db DBTX) domain.SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

func (r *sqlxSubmissionRepository) CreateSubmission(ctx context.Context, s *domain.CodeSubmission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO code_submissions (id, user_id, source, target_id, code, is_correct, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := db.ExecContext(ctx, query, s.ID, s.UserID, string(s.Source), s.TargetID, s.Code, s.IsCorrect, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create code submission: %w", err)
	}
	return nil
}

func (r *sqlxSubmissionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	db := GetExecutor(ctx, r.db)
	if err := db.GetContext(ctx, &count, db.Rebind(`SELECT COUNT(*) FROM code_submissions WHERE user_id = ?`), userID); err != nil {
		return 0, fmt.Errorf("failed to count code submissions: %w", err)
	}
	return count, nil
}

// ListByUser returns one page, newest first, and the user's total submission count.
func (r *sqlxSubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.CodeSubmission, int, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.CodeSubmission{}, 0, nil
	}

	var rows []models.CodeSubmission
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT id, user_id, source, target_id, code, is_correct, created_at
		FROM code_submissions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list code submissions: %w", err)
	}

	result := make([]*domain.CodeSubmission, 0, len(rows))
	for _, m := range rows {
		result = append(result, &domain.CodeSubmission{
			ID:        m.ID,
			UserID:    m.UserID,
			Source:    domain.SubmissionSource(m.Source),
			TargetID:  m.TargetID,
			Code:      m.Code,
			IsCorrect: m.IsCorrect,
			CreatedAt: m.CreatedAt,
		})
	}
	return result, total, nil
}
