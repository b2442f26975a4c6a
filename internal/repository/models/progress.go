package models

import (
	"database/sql"
	"time"
)

type UserProgress struct {
	UserID             string         `db:"user_id"`
	CurrentMilestoneID sql.NullString `db:"current_milestone_id"`
	Score              int            `db:"score"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type MilestoneMark struct {
	MilestoneID string `db:"milestone_id"`
	Kind        string `db:"kind"`
}
