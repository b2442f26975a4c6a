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

const exerciseColumns = `id, user_id, question, generated_code, difficulty, output, hints, suggestions, encouragement, focus_area, is_completed, attempts, created_at, updated_at`

type sqlxExerciseRepository struct {
	db DBTX
}

func NewSQLXExerciseRepository(db DBTX) domain.ExerciseRepository {
	return &sqlxExerciseRepository{db: db}
}

func toDomainExercise(m *models.PersonalizedExercise) *domain.PersonalizedExercise {
	return &domain.PersonalizedExercise{
		ID:            m.ID,
		UserID:        m.UserID,
		Question:      m.Question,
		GeneratedCode: m.GeneratedCode,
		Difficulty:    domain.Difficulty(m.Difficulty),
		Output:        m.Output,
		Hints:         m.Hints,
		Suggestions:   m.Suggestions,
		Encouragement: m.Encouragement,
		FocusArea:     m.FocusArea,
		IsCompleted:   m.IsCompleted,
		Attempts:      m.Attempts,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *sqlxExerciseRepository) CreateExercise(ctx context.Context, ex *domain.PersonalizedExercise) error {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO personalized_exercises (` + exerciseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := db.ExecContext(ctx, query,
		ex.ID, ex.UserID, ex.Question, ex.GeneratedCode, string(ex.Difficulty),
		ex.Output, ex.Hints, ex.Suggestions, ex.Encouragement, ex.FocusArea,
		ex.IsCompleted, ex.Attempts, ex.CreatedAt, ex.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

// GetExerciseForUser returns (nil, nil) when the exercise does not exist or belongs to someone else.
func (r *sqlxExerciseRepository) GetExerciseForUser(ctx context.Context, id, userID string) (*domain.PersonalizedExercise, error) {
	var m models.PersonalizedExercise
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + exerciseColumns + ` FROM personalized_exercises WHERE id = ? AND user_id = ?`)
	if err := db.GetContext(ctx, &m, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exercise %s: %w", id, err)
	}
	return toDomainExercise(&m), nil
}

func (r *sqlxExerciseRepository) ListExercisesByUser(ctx context.Context, userID string) ([]*domain.PersonalizedExercise, error) {
	var rows []models.PersonalizedExercise
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + exerciseColumns + ` FROM personalized_exercises WHERE user_id = ? ORDER BY created_at DESC, id DESC`)
	if err := db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	result := make([]*domain.PersonalizedExercise, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainExercise(&rows[i]))
	}
	return result, nil
}

// RecordExerciseAttempt writes the graded fields and increments attempts atomically.
// is_completed is OR-ed with the stored value so completion never reverts.
func (r *sqlxExerciseRepository) RecordExerciseAttempt(ctx context.Context, ex *domain.PersonalizedExercise) (*domain.PersonalizedExercise, error) {
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`UPDATE personalized_exercises SET
			generated_code = ?,
			output = ?,
			hints = ?,
			suggestions = ?,
			encouragement = ?,
			focus_area = ?,
			is_completed = (is_completed OR ?),
			attempts = attempts + 1,
			updated_at = ?
		WHERE id = ? AND user_id = ?
		RETURNING ` + exerciseColumns)

	var stored models.PersonalizedExercise
	err := db.GetContext(ctx, &stored, query,
		ex.GeneratedCode, ex.Output, ex.Hints, ex.Suggestions, ex.Encouragement, ex.FocusArea,
		ex.IsCompleted, time.Now(), ex.ID, ex.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("exercise %s not found", ex.ID))
		}
		return nil, fmt.Errorf("failed to record exercise attempt: %w", err)
	}
	return toDomainExercise(&stored), nil
}
