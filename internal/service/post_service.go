package service

import (
	"context"
	"strings"
	"time"

	"pawprints/internal/models"
	"pawprints/internal/observability"
	"pawprints/internal/repository"
	"pawprints/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 150
	maxContentLen = 10000

	defaultPageSize = 20
	maxPageSize     = 100
)

// PostService handles creating, listing, liking, and deleting posts.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

// CreatePostInput carries a new post request. The author is identified by
// user id; the stored author name is resolved from the account, never taken
// from the request.
type CreatePostInput struct {
	UserID      uint
	Title       string
	Content     string
	PetCategory string
}

// ListPostsInput selects and orders a page of the feed.
type ListPostsInput struct {
	Sort        string
	PetCategory string
	Limit       int
	Offset      int
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("title is too long")
	}
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("content is too long")
	}
	if err := validation.ValidatePetCategory(in.PetCategory); err != nil {
		return nil, err
	}

	// Resolve the author name from the account rather than the session:
	// a cached token username goes stale after a rename.
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:          title,
		Content:        content,
		PetCategory:    strings.ToLower(strings.TrimSpace(in.PetCategory)),
		AuthorUsername: user.Username,
		CreatedAt:      time.Now().UTC(),
	}
	observability.AddTraceAttributesToContext(ctx, attribute.String("post.pet", post.PetCategory))
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreatedTotal.WithLabelValues(post.PetCategory).Inc()
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	sort := in.Sort
	switch sort {
	case "", repository.SortRecent, repository.SortLikes:
	default:
		return nil, models.NewValidationError("sort must be 'recent' or 'likes'")
	}

	if pet := strings.TrimSpace(in.PetCategory); pet != "" {
		return s.posts.ListByCategory(ctx, strings.ToLower(pet), sort, limit, offset)
	}
	return s.posts.List(ctx, sort, limit, offset)
}

// LikePost bumps the like counter and returns the new value.
func (s *PostService) LikePost(ctx context.Context, postID uint) (int, error) {
	likes, err := s.posts.IncrementLike(ctx, postID)
	if err != nil {
		return 0, err
	}
	observability.PostLikesTotal.Inc()
	return likes, nil
}

// DeletePost removes a post if and only if the caller wrote it.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if post.AuthorUsername != user.Username {
		return models.NewUnauthorizedError("you can only delete your own posts")
	}

	return s.posts.Delete(ctx, postID)
}
