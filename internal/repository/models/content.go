package models

import (
	"database/sql"
	"time"
)

type Milestone struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	OrderIndex  int       `db:"order_index"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type LearnContent struct {
	ID                  string         `db:"id"`
	MilestoneID         string         `db:"milestone_id"`
	Title               string         `db:"title"`
	VideoURL            sql.NullString `db:"video_url"`
	AudioURL            sql.NullString `db:"audio_url"`
	Transcript          sql.NullString `db:"transcript"`
	AdditionalResources JSONObject     `db:"additional_resources"`
	OrderIndex          int            `db:"order_index"`
	IsAdditional        bool           `db:"is_additional"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type CodeQuestion struct {
	ID          string         `db:"id"`
	MilestoneID string         `db:"milestone_id"`
	Question    string         `db:"question"`
	ExampleCode sql.NullString `db:"example_code"`
	Hint        sql.NullString `db:"hint"`
	VideoURL    sql.NullString `db:"video_url"`
	AudioURL    sql.NullString `db:"audio_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type MCQQuestion struct {
	ID            string    `db:"id"`
	MilestoneID   string    `db:"milestone_id"`
	QuestionText  string    `db:"question_text"`
	Options       OptionMap `db:"options"`
	CorrectAnswer string    `db:"correct_answer"`
	Explanation   string    `db:"explanation"`
	OrderIndex    int       `db:"order_index"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
