package repository

import (
	"context"
	"errors"

	"pawprints/internal/models"
	"pawprints/internal/observability"

	"gorm.io/gorm"
)

// Sort orders accepted by the post listing operations.
const (
	SortRecent = "recent"
	SortLikes  = "likes"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error)
	ListByCategory(ctx context.Context, pet, sort string, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Post, error)
	IncrementLike(ctx context.Context, id uint) (int, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "Create", "posts")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "GetByID", "posts")
	defer func() { finish(err) }()

	var post models.Post
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		if err := r.db.WithContext(qctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, sort string, limit, offset int) (_ []*models.Post, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "List", "posts")
	defer func() { finish(err) }()

	var posts []*models.Post
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		err := r.applySort(r.db.WithContext(qctx), sort).
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
		if err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByCategory(ctx context.Context, pet, sort string, limit, offset int) (_ []*models.Post, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "ListByCategory", "posts")
	defer func() { finish(err) }()

	var posts []*models.Post
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		base := r.db.WithContext(qctx).Where("pet_category = ?", pet)
		err := r.applySort(base, sort).
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
		if err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, username string, limit, offset int) (_ []*models.Post, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "ListByAuthor", "posts")
	defer func() { finish(err) }()

	var posts []*models.Post
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		err := r.db.WithContext(qctx).
			Where("author_username = ?", username).
			Order("created_at DESC, id ASC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
		if err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementLike bumps the like counter in a single statement so concurrent
// likes never lose updates, and returns the new count.
func (r *postRepository) IncrementLike(ctx context.Context, id uint) (_ int, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "IncrementLike", "posts")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var likes int
	res := r.db.WithContext(ctx).Raw(
		"UPDATE posts SET like_count = like_count + 1 WHERE id = ? RETURNING like_count",
		id,
	).Scan(&likes)
	if res.Error != nil {
		return 0, wrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}
	return likes, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "Delete", "posts")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return wrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// The id tiebreak keeps pagination stable when timestamps or counts collide.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortLikes:
		return db.Order("like_count DESC, id ASC")
	default: // "recent" and anything unrecognized
		return db.Order("created_at DESC, id ASC")
	}
}
