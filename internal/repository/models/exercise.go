package models

import "time"

type PersonalizedExercise struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Question      string    `db:"question"`
	GeneratedCode string    `db:"generated_code"`
	Difficulty    string    `db:"difficulty"`
	Output        string    `db:"output"`
	Hints         string    `db:"hints"`
	Suggestions   string    `db:"suggestions"`
	Encouragement string    `db:"encouragement"`
	FocusArea     string    `db:"focus_area"`
	IsCompleted   bool      `db:"is_completed"`
	Attempts      int       `db:"attempts"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
