package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pywhiz/internal/domain"
	"pywhiz/internal/repository/models"
)

const (
	milestoneColumns    = `id, title, description, order_index, is_active, created_at, updated_at`
	learnContentColumns = `id, milestone_id, title, video_url, audio_url, transcript, additional_resources, order_index, is_additional, created_at, updated_at`
	codeQuestionColumns = `id, milestone_id, question, example_code, hint, video_url, audio_url, created_at, updated_at`
	mcqQuestionColumns  = `id, milestone_id, question_text, options, correct_answer, explanation, order_index, created_at, updated_at`
)

// sqlxContentRepository reads the published curriculum.
type sqlxContentRepository struct {
	db DBTX
}

func NewSQLXContentRepository(db DBTX) domain.ContentRepository {
	return &sqlxContentRepository{db: db}
}

func toDomainMilestone(m *models.Milestone) *domain.Milestone {
	return &domain.Milestone{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Order:       m.OrderIndex,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainLearnContent(m *models.LearnContent) *domain.LearnContent {
	return &domain.LearnContent{
		ID:                  m.ID,
		MilestoneID:         m.MilestoneID,
		Title:               m.Title,
		VideoURL:            m.VideoURL.String,
		AudioURL:            m.AudioURL.String,
		Transcript:          m.Transcript.String,
		AdditionalResources: m.AdditionalResources,
		Order:               m.OrderIndex,
		IsAdditional:        m.IsAdditional,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toDomainCodeQuestion(m *models.CodeQuestion) *domain.CodeQuestion {
	return &domain.CodeQuestion{
		ID:          m.ID,
		MilestoneID: m.MilestoneID,
		Question:    m.Question,
		ExampleCode: m.ExampleCode.String,
		Hint:        m.Hint.String,
		VideoURL:    m.VideoURL.String,
		AudioURL:    m.AudioURL.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainMCQQuestion(m *models.MCQQuestion) *domain.MCQQuestion {
	return &domain.MCQQuestion{
		ID:            m.ID,
		MilestoneID:   m.MilestoneID,
		QuestionText:  m.QuestionText,
		Options:       m.Options,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		Order:         m.OrderIndex,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *sqlxContentRepository) ListActiveMilestones(ctx context.Context) ([]*domain.Milestone, error) {
	var rows []models.Milestone
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + milestoneColumns + ` FROM milestones WHERE is_active = ? ORDER BY order_index`)
	if err := db.SelectContext(ctx, &rows, query, true); err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	result := make([]*domain.Milestone, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainMilestone(&rows[i]))
	}
	return result, nil
}

func (r *sqlxContentRepository) GetMilestoneByID(ctx context.Context, id string) (*domain.Milestone, error) {
	var m models.Milestone
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + milestoneColumns + ` FROM milestones WHERE id = ?`)
	if err := db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get milestone %s: %w", id, err)
	}
	return toDomainMilestone(&m), nil
}

func (r *sqlxContentRepository) GetFirstActiveMilestone(ctx context.Context) (*domain.Milestone, error) {
	var m models.Milestone
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + milestoneColumns + ` FROM milestones WHERE is_active = ? ORDER BY order_index LIMIT 1`)
	if err := db.GetContext(ctx, &m, query, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get first milestone: %w", err)
	}
	return toDomainMilestone(&m), nil
}

func (r *sqlxContentRepository) ListLearnContents(ctx context.Context, milestoneID string) ([]*domain.LearnContent, error) {
	var rows []models.LearnContent
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + learnContentColumns + ` FROM learn_contents WHERE milestone_id = ? ORDER BY order_index`)
	if err := db.SelectContext(ctx, &rows, query, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to list learn contents: %w", err)
	}

	result := make([]*domain.LearnContent, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainLearnContent(&rows[i]))
	}
	return result, nil
}

func (r *sqlxContentRepository) ListCodeQuestions(ctx context.Context, milestoneID string) ([]*domain.CodeQuestion, error) {
	var rows []models.CodeQuestion
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + codeQuestionColumns + ` FROM code_questions WHERE milestone_id = ? ORDER BY created_at, id`)
	if err := db.SelectContext(ctx, &rows, query, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to list code questions: %w", err)
	}

	result := make([]*domain.CodeQuestion, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainCodeQuestion(&rows[i]))
	}
	return result, nil
}

func (r *sqlxContentRepository) GetCodeQuestionByID(ctx context.Context, id string) (*domain.CodeQuestion, error) {
	var m models.CodeQuestion
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + codeQuestionColumns + ` FROM code_questions WHERE id = ?`)
	if err := db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get code question %s: %w", id, err)
	}
	return toDomainCodeQuestion(&m), nil
}

func (r *sqlxContentRepository) ListMCQQuestions(ctx context.Context, milestoneID string) ([]*domain.MCQQuestion, error) {
	var rows []models.MCQQuestion
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + mcqQuestionColumns + ` FROM mcq_questions WHERE milestone_id = ? ORDER BY order_index`)
	if err := db.SelectContext(ctx, &rows, query, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to list mcq questions: %w", err)
	}

	result := make([]*domain.MCQQuestion, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainMCQQuestion(&rows[i]))
	}
	return result, nil
}

func (r *sqlxContentRepository) GetMCQQuestionByID(ctx context.Context, id string) (*domain.MCQQuestion, error) {
	var m models.MCQQuestion
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT ` + mcqQuestionColumns + ` FROM mcq_questions WHERE id = ?`)
	if err := db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mcq question %s: %w", id, err)
	}
	return toDomainMCQQuestion(&m), nil
}

func (r *sqlxContentRepository) CountMCQQuestions(ctx context.Context, milestoneID string) (int, error) {
	var count int
	db := GetExecutor(ctx, r.db)
	query := db.Rebind(`SELECT COUNT(*) FROM mcq_questions WHERE milestone_id = ?`)
	if err := db.GetContext(ctx, &count, query, milestoneID); err != nil {
		return 0, fmt.Errorf("failed to count mcq questions: %w", err)
	}
	return count, nil
}
