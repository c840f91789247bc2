// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pawprints/internal/identity"
	"pawprints/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var petCategories = []string{"dog", "cat", "bird", "fish", "rabbit", "hamster", "reptile"}

// Seeder populates the database with sample and generated data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes all posts and users.
func (s *Seeder) ClearAll() error {
	if err := s.db.Exec("DELETE FROM posts").Error; err != nil {
		return fmt.Errorf("clearing posts: %w", err)
	}
	if err := s.db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("clearing users: %w", err)
	}
	return nil
}

// SeedSamples creates the two well-known demo accounts and their posts.
// It is idempotent: existing accounts are left alone.
func (s *Seeder) SeedSamples() error {
	samples := []struct {
		user  models.User
		posts []models.Post
	}{
		{
			user: models.User{
				Username:         "DogLover",
				HashedProviderID: identity.HashSubject("1"),
				AvatarRef:        "/api/avatar/DogLover",
				MemberSince:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
			},
			posts: []models.Post{
				{
					Title:          "Maya's first beach day",
					Content:        "She chased the waves for an hour and slept the whole ride home.",
					PetCategory:    "dog",
					AuthorUsername: "DogLover",
					LikeCount:      3,
					CreatedAt:      time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			user: models.User{
				Username:         "CatsRule",
				HashedProviderID: identity.HashSubject("2"),
				AvatarRef:        "/api/avatar/CatsRule",
				MemberSince:      time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			posts: []models.Post{
				{
					Title:          "Whiskers claimed the laptop again",
					Content:        "Forty minutes of meetings conducted over a sleeping cat.",
					PetCategory:    "cat",
					AuthorUsername: "CatsRule",
					LikeCount:      5,
					CreatedAt:      time.Date(2026, 1, 2, 11, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	for _, sample := range samples {
		var existing models.User
		err := s.db.Where("username = ?", sample.user.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("checking for %s: %w", sample.user.Username, err)
		}

		user := sample.user
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("creating %s: %w", user.Username, err)
		}
		for i := range sample.posts {
			if err := s.db.Create(&sample.posts[i]).Error; err != nil {
				return fmt.Errorf("creating post for %s: %w", user.Username, err)
			}
		}
		log.Printf("seeded sample account %s", user.Username)
	}
	return nil
}

// SeedRandom generates users and posts with fake but plausible content.
func (s *Seeder) SeedRandom(numUsers, numPosts int) error {
	users := make([]models.User, 0, numUsers)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < numUsers; i++ {
		username := fmt.Sprintf("%s%s%d", gofakeit.PetName(), gofakeit.LastName(), r.Intn(1000))
		user := models.User{
			Username:         username,
			HashedProviderID: identity.HashSubject(gofakeit.UUID()),
			AvatarRef:        "/api/avatar/" + username,
			MemberSince:      time.Now().Add(-time.Duration(r.Intn(365*24)) * time.Hour),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil
	}

	for i := 0; i < numPosts; i++ {
		author := users[r.Intn(len(users))]
		post := models.Post{
			Title:          gofakeit.Sentence(5),
			Content:        gofakeit.Paragraph(1, 3, 5, "\n"),
			PetCategory:    petCategories[r.Intn(len(petCategories))],
			AuthorUsername: author.Username,
			LikeCount:      r.Intn(50),
			CreatedAt:      time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return fmt.Errorf("creating post %d: %w", i, err)
		}
	}

	log.Printf("seeded %d users and %d posts", numUsers, numPosts)
	return nil
}
