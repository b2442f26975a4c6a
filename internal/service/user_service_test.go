package service

import (
	"context"
	"errors"
	"testing"

	"pywhiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUserProfile(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Email: "ada@example.com"}, nil)
	users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)
	users.On("GetUserByID", mock.Anything, "broken").Return(nil, errors.New("db down"))

	svc := NewUserService(users, new(MockSubmissionRepository))

	u, err := svc.GetUserProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = svc.GetUserProfile(context.Background(), "ghost")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))

	_, err = svc.GetUserProfile(context.Background(), "broken")
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}

func TestUserService_ListSubmissions(t *testing.T) {
	submissions := new(MockSubmissionRepository)
	page := []*domain.CodeSubmission{{ID: "s2"}, {ID: "s1"}}
	submissions.On("ListByUser", mock.Anything, "u1", 2, 0).Return(page, 7, nil)

	svc := NewUserService(new(MockUserRepository), submissions)
	items, total, err := svc.ListSubmissions(context.Background(), "u1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, page, items)
}
