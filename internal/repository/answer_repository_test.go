package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"pywhiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeAnswerRowColumns = []string{"user_id", "question_id", "user_code", "output", "hints", "suggestions", "is_correct", "attempts", "created_at", "updated_at"}

func TestSQLXAnswerRepository_UpsertCodeAnswer(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	now := time.Now()

	answer := &domain.CodeAnswer{
		UserID: "u1", QuestionID: "q1", UserCode: "print(6)",
		Output: "6", Hints: "none", Suggestions: "fine", IsCorrect: true,
	}

	mock.ExpectQuery(`(?s)` + regexp.QuoteMeta(`INSERT INTO user_code_answers`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT (user_id, question_id) DO UPDATE SET`) + `.*` +
		regexp.QuoteMeta(`attempts = user_code_answers.attempts + 1`) + `.*RETURNING`).
		WithArgs("u1", "q1", "print(6)", "6", "none", "fine", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(codeAnswerRowColumns).
			AddRow("u1", "q1", "print(6)", "6", "none", "fine", true, 3, now, now))

	stored, err := repo.UpsertCodeAnswer(context.Background(), answer)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Attempts)
	assert.True(t, stored.IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_GetCodeAnswer_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXAnswerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_code_answers WHERE user_id = ? AND question_id = ?`)).
		WithArgs("u1", "q1").
		WillReturnRows(sqlmock.NewRows(codeAnswerRowColumns))

	a, err := repo.GetCodeAnswer(context.Background(), "u1", "q1")
	assert.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_MCQ(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXAnswerRepository(db)

	mock.ExpectExec(`(?s)` + regexp.QuoteMeta(`INSERT INTO user_mcq_answers`) + `.*` + regexp.QuoteMeta(`ON CONFLICT (user_id, question_id) DO UPDATE SET`)).
		WithArgs("u1", "mcq1", "B", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertMCQAnswer(context.Background(), &domain.MCQAnswer{
		UserID: "u1", QuestionID: "mcq1", SelectedOption: "B", IsCorrect: false,
	}))

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM user_mcq_answers a.*JOIN mcq_questions q`).
		WithArgs("u1", "m1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountCorrectMCQAnswers(context.Background(), "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXSubmissionRepository(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXSubmissionRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO code_submissions (id, user_id, source, target_id, code, is_correct, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)).
		WithArgs("s1", "u1", "exercise", "ex1", "print(1)", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateSubmission(context.Background(), &domain.CodeSubmission{
		ID: "s1", UserID: "u1", Source: domain.SourceExercise, TargetID: "ex1", Code: "print(1)", IsCorrect: true,
	}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM code_submissions WHERE user_id = ?`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`(?s)FROM code_submissions WHERE user_id = \? ORDER BY created_at DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs("u1", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "source", "target_id", "code", "is_correct", "created_at"}).
			AddRow("s12", "u1", "question", "q1", "print(2)", false, now))

	list, total, err := repo.ListByUser(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SourceCodeQuestion, list[0].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXSubmissionRepository_ListByUser_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXSubmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM code_submissions`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.ListByUser(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
