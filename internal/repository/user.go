package repository

import (
	"context"
	"errors"

	"pawprints/internal/models"
	"pawprints/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByHashedProviderID(ctx context.Context, hashed string) (*models.User, error)
	Rename(ctx context.Context, id uint, newUsername, newAvatarRef string) (*models.User, error)
	SetAvatarRef(ctx context.Context, id uint, ref string) error
}

type userRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "Create", "users")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("username is already taken")
		}
		return wrapStoreError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "GetByID", "users")
	defer func() { finish(err) }()

	var user models.User
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		if err := r.db.WithContext(qctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "GetByUsername", "users")
	defer func() { finish(err) }()

	var user models.User
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		if err := r.db.WithContext(qctx).Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", username)
			}
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByHashedProviderID returns (nil, nil) when no account matches: an
// unknown provider identity is the normal first-login branch, not an error.
func (r *userRepository) GetByHashedProviderID(ctx context.Context, hashed string) (_ *models.User, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "GetByHashedProviderID", "users")
	defer func() { finish(err) }()

	var user models.User
	found := false
	err = withRetry(ctx, func() error {
		qctx, cancel := withTimeout(ctx)
		defer cancel()

		if err := r.db.WithContext(qctx).Where("hashed_provider_id = ?", hashed).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return wrapStoreError(err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// Rename changes a user's username and rewrites the author name on all of
// their posts and the stored avatar ref in the same transaction, so readers
// never observe a post attributed to a name that no longer resolves.
func (r *userRepository) Rename(ctx context.Context, id uint, newUsername, newAvatarRef string) (_ *models.User, err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "Rename", "users")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return wrapStoreError(err)
		}
		if user.Username == newUsername {
			return nil
		}
		if err := tx.Model(&models.Post{}).
			Where("author_username = ?", user.Username).
			Update("author_username", newUsername).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"username":   newUsername,
			"avatar_ref": newAvatarRef,
		}).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("username is already taken")
			}
			return wrapStoreError(err)
		}
		user.Username = newUsername
		user.AvatarRef = newAvatarRef
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetAvatarRef(ctx context.Context, id uint, ref string) (err error) {
	ctx, finish := observeQuery(ctx, r.metrics, "SetAvatarRef", "users")
	defer func() { finish(err) }()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar_ref", ref)
	if res.Error != nil {
		return wrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}
