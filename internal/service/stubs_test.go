package service

import (
	"context"
	"errors"

	"pawprints/internal/models"
)

// userRepoStub is a func-field stub for repository.UserRepository.
type userRepoStub struct {
	createFn                func(ctx context.Context, user *models.User) error
	getByIDFn               func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn         func(ctx context.Context, username string) (*models.User, error)
	getByHashedProviderIDFn func(ctx context.Context, hashed string) (*models.User, error)
	renameFn                func(ctx context.Context, id uint, newUsername, newAvatarRef string) (*models.User, error)
	setAvatarRefFn          func(ctx context.Context, id uint, ref string) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetByHashedProviderID(ctx context.Context, hashed string) (*models.User, error) {
	return s.getByHashedProviderIDFn(ctx, hashed)
}

func (s *userRepoStub) Rename(ctx context.Context, id uint, newUsername, newAvatarRef string) (*models.User, error) {
	return s.renameFn(ctx, id, newUsername, newAvatarRef)
}

func (s *userRepoStub) SetAvatarRef(ctx context.Context, id uint, ref string) error {
	return s.setAvatarRefFn(ctx, id, ref)
}

// noopUserRepo returns a stub whose methods all fail loudly unless replaced.
func noopUserRepo() *userRepoStub {
	fail := errors.New("unexpected repository call")
	return &userRepoStub{
		createFn:                func(context.Context, *models.User) error { return fail },
		getByIDFn:               func(context.Context, uint) (*models.User, error) { return nil, fail },
		getByUsernameFn:         func(context.Context, string) (*models.User, error) { return nil, fail },
		getByHashedProviderIDFn: func(context.Context, string) (*models.User, error) { return nil, fail },
		renameFn:                func(context.Context, uint, string, string) (*models.User, error) { return nil, fail },
		setAvatarRefFn:          func(context.Context, uint, string) error { return fail },
	}
}

// postRepoStub is a func-field stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(ctx context.Context, post *models.Post) error
	getByIDFn        func(ctx context.Context, id uint) (*models.Post, error)
	listFn           func(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error)
	listByCategoryFn func(ctx context.Context, pet, sort string, limit, offset int) ([]*models.Post, error)
	listByAuthorFn   func(ctx context.Context, username string, limit, offset int) ([]*models.Post, error)
	incrementLikeFn  func(ctx context.Context, id uint) (int, error)
	deleteFn         func(ctx context.Context, id uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *postRepoStub) List(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, sort, limit, offset)
}

func (s *postRepoStub) ListByCategory(ctx context.Context, pet, sort string, limit, offset int) ([]*models.Post, error) {
	return s.listByCategoryFn(ctx, pet, sort, limit, offset)
}

func (s *postRepoStub) ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, username, limit, offset)
}

func (s *postRepoStub) IncrementLike(ctx context.Context, id uint) (int, error) {
	return s.incrementLikeFn(ctx, id)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// noopPostRepo returns a stub whose methods all fail loudly unless replaced.
func noopPostRepo() *postRepoStub {
	fail := errors.New("unexpected repository call")
	return &postRepoStub{
		createFn:         func(context.Context, *models.Post) error { return fail },
		getByIDFn:        func(context.Context, uint) (*models.Post, error) { return nil, fail },
		listFn:           func(context.Context, string, int, int) ([]*models.Post, error) { return nil, fail },
		listByCategoryFn: func(context.Context, string, string, int, int) ([]*models.Post, error) { return nil, fail },
		listByAuthorFn:   func(context.Context, string, int, int) ([]*models.Post, error) { return nil, fail },
		incrementLikeFn:  func(context.Context, uint) (int, error) { return 0, fail },
		deleteFn:         func(context.Context, uint) error { return fail },
	}
}
