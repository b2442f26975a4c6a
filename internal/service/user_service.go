package service

import (
	"context"
	"fmt"

	"pywhiz/internal/domain"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*domain.User, error)
	// ListSubmissions returns one page of the code submission history and the total count.
	ListSubmissions(ctx context.Context, userID string, limit, offset int) ([]*domain.CodeSubmission, int, error)
}

type userServiceImpl struct {
	userRepo       domain.UserRepository
	submissionRepo domain.SubmissionRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo domain.UserRepository, submissionRepo domain.SubmissionRepository) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
	}
}

// GetUserProfile retrieves a user's profile information.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}
	return user, nil
}

func (s *userServiceImpl) ListSubmissions(ctx context.Context, userID string, limit, offset int) ([]*domain.CodeSubmission, int, error) {
	items, total, err := s.submissionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to list submissions", err)
	}
	return items, total, nil
}
