package models

import "time"

type UserCodeAnswer struct {
	UserID      string    `db:"user_id"`
	QuestionID  string    `db:"question_id"`
	UserCode    string    `db:"user_code"`
	Output      string    `db:"output"`
	Hints       string    `db:"hints"`
	Suggestions string    `db:"suggestions"`
	IsCorrect   bool      `db:"is_correct"`
	Attempts    int       `db:"attempts"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UserMCQAnswer struct {
	UserID         string    `db:"user_id"`
	QuestionID     string    `db:"question_id"`
	SelectedOption string    `db:"selected_option"`
	IsCorrect      bool      `db:"is_correct"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type CodeSubmission struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Source    string    `db:"source"`
	TargetID  string    `db:"target_id"`
	Code      string    `db:"code"`
	IsCorrect bool      `db:"is_correct"`
	CreatedAt time.Time `db:"created_at"`
}
