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

const codeAnswerColumns = `user_id, question_id, user_code, output, hints, suggestions, is_correct, attempts, created_at, updated_at`

type sqlxAnswerRepository struct {
	db DBTX
}

func NewSQLXAnswerRepository(db DBTX) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db}
}

func toDomainCodeAnswer(m *models.UserCodeAnswer) *domain.CodeAnswer {
	return &domain.CodeAnswer{
		UserID:      m.UserID,
		QuestionID:  m.QuestionID,
		UserCode:    m.UserCode,
		Output:      m.Output,
		Hints:       m.Hints,
		Suggestions: m.Suggestions,
		IsCorrect:   m.IsCorrect,
		Attempts:    m.Attempts,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// UpsertCodeAnswer keeps a single row per (user, question): a resubmission replaces the graded
// fields and bumps attempts in the same statement.
func (r *sqlxAnswerRepository) UpsertCodeAnswer(ctx context.Context, answer *domain.CodeAnswer) (*domain.CodeAnswer, error) {
	now := time.Now()
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO user_code_answers (` + codeAnswerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			user_code = excluded.user_code,
			output = excluded.output,
			hints = excluded.hints,
			suggestions = excluded.suggestions,
			is_correct = excluded.is_correct,
			attempts = user_code_answers.attempts + 1,
			updated_at = excluded.updated_at
		RETURNING ` + codeAnswerColumns)

	var stored models.UserCodeAnswer
	err := db.GetContext(ctx, &stored, query,
		answer.UserID, answer.QuestionID, answer.UserCode,
		answer.Output, answer.Hints, answer.Suggestions, answer.IsCorrect,
		now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert code answer: %w", err)
	}
	return toDomainCodeAnswer(&stored), nil
}

func (r *sqlxAnswerRepository) GetCodeAnswer(ctx context.Context, userID, questionID string) (*domain.CodeAnswer, error) {
	var m models.UserCodeAnswer
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + codeAnswerColumns + ` FROM user_code_answers WHERE user_id = ? AND question_id = ?`)
	if err := db.GetContext(ctx, &m, query, userID, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get code answer: %w", err)
	}
	return toDomainCodeAnswer(&m), nil
}

func (r *sqlxAnswerRepository) UpsertMCQAnswer(ctx context.Context, answer *domain.MCQAnswer) error {
	now := time.Now()
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`INSERT INTO user_mcq_answers (user_id, question_id, selected_option, is_correct, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			selected_option = excluded.selected_option,
			is_correct = excluded.is_correct,
			updated_at = excluded.updated_at`)
	if _, err := db.ExecContext(ctx, query, answer.UserID, answer.QuestionID, answer.SelectedOption, answer.IsCorrect, now, now); err != nil {
		return fmt.Errorf("failed to upsert mcq answer: %w", err)
	}
	return nil
}

func (r *sqlxAnswerRepository) CountCorrectMCQAnswers(ctx context.Context, userID, milestoneID string) (int, error) {
	var count int
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT COUNT(*) FROM user_mcq_answers a
		JOIN mcq_questions q ON q.id = a.question_id
		WHERE a.user_id = ? AND q.milestone_id = ? AND a.is_correct = ?`)
	if err := db.GetContext(ctx, &count, query, userID, milestoneID, true); err != nil {
		return 0, fmt.Errorf("failed to count correct mcq answers: %w", err)
	}
	return count, nil
}
