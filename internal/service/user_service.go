package service

import (
	"context"

	"pawprints/internal/models"
	"pawprints/internal/observability"
	"pawprints/internal/repository"
	"pawprints/internal/validation"
)

const profilePostLimit = 50

// UserService handles account lookups and username changes.
type UserService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

// Profile is a user together with their recent posts.
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

// NewUserService returns a new UserService.
func NewUserService(users repository.UserRepository, posts repository.PostRepository) *UserService {
	return &UserService{users: users, posts: posts}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile returns a user and their most recent posts.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, user.Username, profilePostLimit, 0)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts}, nil
}

// Rename changes a user's username. Authorship on existing posts and the
// stored avatar ref follow the new name in the same transaction, so the
// profile and the feed never disagree.
func (s *UserService) Rename(ctx context.Context, userID uint, newUsername string) (*models.User, error) {
	if err := validation.ValidateUsername(newUsername); err != nil {
		return nil, err
	}

	user, err := s.users.Rename(ctx, userID, newUsername, "/api/avatar/"+newUsername)
	if err != nil {
		return nil, err
	}

	observability.UsernameRenamesTotal.Inc()
	return user, nil
}
