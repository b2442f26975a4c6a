package dto

import (
	"time"

	"pywhiz/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

func NewUserProfileResponse(u *domain.User) *UserProfileResponse {
	return &UserProfileResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// Pagination is bound from the page and page_size query parameters.
type Pagination struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// Normalize fills defaults and returns the row limit and offset.
func (p *Pagination) Normalize() (limit, offset int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int `json:"total_items"`
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

func NewPaginationInfo(p Pagination, total int) PaginationInfo {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PaginationInfo{
		TotalItems:  total,
		PageSize:    p.PageSize,
		CurrentPage: p.Page,
		TotalPages:  pages,
	}
}

type SubmissionResponse struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	TargetID  string    `json:"target_id"`
	Code      string    `json:"code"`
	IsCorrect bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionHistoryResponse is one page of a learner's code submissions, newest first.
type SubmissionHistoryResponse struct {
	Submissions    []SubmissionResponse `json:"submissions"`
	PaginationInfo PaginationInfo       `json:"pagination_info"`
}

func NewSubmissionHistoryResponse(items []*domain.CodeSubmission, p Pagination, total int) *SubmissionHistoryResponse {
	resp := &SubmissionHistoryResponse{
		Submissions:    make([]SubmissionResponse, 0, len(items)),
		PaginationInfo: NewPaginationInfo(p, total),
	}
	for _, s := range items {
		resp.Submissions = append(resp.Submissions, SubmissionResponse{
			ID:        s.ID,
			Source:    string(s.Source),
			TargetID:  s.TargetID,
			Code:      s.Code,
			IsCorrect: s.IsCorrect,
			CreatedAt: s.CreatedAt,
		})
	}
	return resp
}
