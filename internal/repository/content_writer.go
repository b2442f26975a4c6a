package repository

import (
	"context"
	"fmt"
	"time"

	"pywhiz/internal/domain"
	"pywhiz/internal/repository/models"
	"pywhiz/internal/util"
)

// ContentWriter upserts curriculum rows by id. It is used by the seeding tool only.
type ContentWriter struct {
	db DBTX
}

func NewContentWriter(db DBTX) *ContentWriter {
	return &ContentWriter{db: db}
}

func (w *ContentWriter) UpsertMilestone(ctx context.Context, m *domain.Milestone) error {
	now := time.Now()
	db := GetExecutor(ctx, w.db)
	query := db.Rebind(`INSERT INTO milestones (` + milestoneColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			order_index = excluded.order_index,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`)
	if _, err := db.ExecContext(ctx, query, m.ID, m.Title, m.Description, m.Order, m.IsActive, now, now); err != nil {
		return fmt.Errorf("failed to upsert milestone %s: %w", m.ID, err)
	}
	return nil
}

func (w *ContentWriter) UpsertLearnContent(ctx context.Context, c *domain.LearnContent) error {
	now := time.Now()
	db := GetExecutor(ctx, w.db)
	query := db.Rebind(`INSERT INTO learn_contents (` + learnContentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			milestone_id = excluded.milestone_id,
			title = excluded.title,
			video_url = excluded.video_url,
			audio_url = excluded.audio_url,
			transcript = excluded.transcript,
			additional_resources = excluded.additional_resources,
			order_index = excluded.order_index,
			is_additional = excluded.is_additional,
			updated_at = excluded.updated_at`)
	_, err := db.ExecContext(ctx, query,
		c.ID, c.MilestoneID, c.Title,
		util.StringToNullString(c.VideoURL), util.StringToNullString(c.AudioURL), util.StringToNullString(c.Transcript),
		models.JSONObject(c.AdditionalResources), c.Order, c.IsAdditional, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert learn content %s: %w", c.ID, err)
	}
	return nil
}

func (w *ContentWriter) UpsertCodeQuestion(ctx context.Context, q *domain.CodeQuestion) error {
	now := time.Now()
	db := GetExecutor(ctx, w.db)
	query := db.Rebind(`INSERT INTO code_questions (` + codeQuestionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			milestone_id = excluded.milestone_id,
			question = excluded.question,
			example_code = excluded.example_code,
			hint = excluded.hint,
			video_url = excluded.video_url,
			audio_url = excluded.audio_url,
			updated_at = excluded.updated_at`)
	_, err := db.ExecContext(ctx, query,
		q.ID, q.MilestoneID, q.Question,
		util.StringToNullString(q.ExampleCode), util.StringToNullString(q.Hint),
		util.StringToNullString(q.VideoURL), util.StringToNullString(q.AudioURL), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert code question %s: %w", q.ID, err)
	}
	return nil
}

func (w *ContentWriter) UpsertMCQQuestion(ctx context.Context, q *domain.MCQQuestion) error {
	now := time.Now()
	db := GetExecutor(ctx, w.db)
	query := db.Rebind(`INSERT INTO mcq_questions (` + mcqQuestionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			milestone_id = excluded.milestone_id,
			question_text = excluded.question_text,
			options = excluded.options,
			correct_answer = excluded.correct_answer,
			explanation = excluded.explanation,
			order_index = excluded.order_index,
			updated_at = excluded.updated_at`)
	_, err := db.ExecContext(ctx, query,
		q.ID, q.MilestoneID, q.QuestionText, models.OptionMap(q.Options),
		domain.NormalizeOption(q.CorrectAnswer), q.Explanation, q.Order, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert mcq question %s: %w", q.ID, err)
	}
	return nil
}
