package services

import (
	"context"

	"github.com/ncnews/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a UserService backed by repo.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with the given username.
func (s *UserService) Get(ctx context.Context, username string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, notFound(err, "User not found")
	}
	return user, nil
}
