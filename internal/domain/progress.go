package domain

import (
	"context"
	"fmt"
	"time"
)

// MarkKind names one of the per-milestone completion sets.
type MarkKind string

const (
	MarkWatchedVideo       MarkKind = "watched_video"
	MarkCompletedCode      MarkKind = "completed_code"
	MarkCompletedExercise  MarkKind = "completed_exercise"
	MarkCompletedMilestone MarkKind = "completed_milestone"
)

// TrackKinds must all be present for a milestone to count as completed.
var TrackKinds = []MarkKind{MarkWatchedVideo, MarkCompletedCode, MarkCompletedExercise}

// ParseTrackKind accepts only the learner-driven tracks; completed_milestone is never set directly.
func ParseTrackKind(s string) (MarkKind, error) {
	for _, k := range TrackKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown progress track %q", s)
}

// UserProgress is the per-user ledger row plus its completion sets, each a list of milestone ids.
type UserProgress struct {
	UserID              string
	CurrentMilestoneID  string
	Score               int
	WatchedVideos       []string
	CompletedCode       []string
	CompletedExercises  []string
	CompletedMilestones []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p *UserProgress) HasCompletedMilestone(milestoneID string) bool {
	for _, id := range p.CompletedMilestones {
		if id == milestoneID {
			return true
		}
	}
	return false
}

type UnitType string

const (
	UnitCodeQuestion UnitType = "code_question"
	UnitExercise     UnitType = "exercise"
	UnitMCQSet       UnitType = "mcq_set"
	UnitMilestone    UnitType = "milestone"
)

// ScoreUnit identifies something that can be rewarded at most once per user.
type ScoreUnit struct {
	Type UnitType
	ID   string
}

func (u ScoreUnit) String() string {
	return string(u.Type) + ":" + u.ID
}

// MarkResult reports what a MarkMilestone call changed.
type MarkResult struct {
	MilestoneID        string   `json:"milestone_id"`
	Kind               MarkKind `json:"kind"`
	Recorded           bool     `json:"recorded"`
	MilestoneCompleted bool     `json:"milestone_completed"`
	BonusAwarded       bool     `json:"bonus_awarded"`
}

type ProgressRepository interface {
	// EnsureProgress creates the ledger row if it does not exist yet.
	EnsureProgress(ctx context.Context, userID string) error
	GetProgress(ctx context.Context, userID string) (*UserProgress, error)
	SetCurrentMilestone(ctx context.Context, userID, milestoneID string) error
	SetCurrentMilestoneIfEmpty(ctx context.Context, userID, milestoneID string) error
	// ClaimScoredUnit reports true only for the first claim of unit by userID.
	ClaimScoredUnit(ctx context.Context, userID string, unit ScoreUnit, points int) (bool, error)
	// AddScore is a single-row atomic increment.
	AddScore(ctx context.Context, userID string, points int) error
	// AddMark reports true when the mark was not present before.
	AddMark(ctx context.Context, userID, milestoneID string, kind MarkKind) (bool, error)
	ListMarkKinds(ctx context.Context, userID, milestoneID string) ([]MarkKind, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
