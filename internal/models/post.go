package models

import (
	"time"
)

// Post is a text post tagged with a pet category.
//
// AuthorUsername is a denormalized reference to User.Username rather than a
// foreign key: feed reads never join, and renaming a user rewrites this
// column for all of their posts inside the same transaction as the rename.
// LikeCount only ever grows, and only through PostRepository.IncrementLike.
type Post struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Content        string    `gorm:"not null" json:"content"`
	PetCategory    string    `gorm:"not null;index" json:"pet_category"`
	AuthorUsername string    `gorm:"not null;index" json:"author_username"`
	LikeCount      int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt      time.Time `json:"created_at"`
}
