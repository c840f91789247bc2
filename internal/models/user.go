// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a local account bound to an external identity.
//
// HashedProviderID is the one-way hash of the identity provider's subject id;
// it is the only link back to the external identity and is never serialized.
// Users are looked up by ID, Username, or HashedProviderID and are never
// deleted once created.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedProviderID string    `gorm:"column:hashed_provider_id;uniqueIndex;not null" json:"-"`
	AvatarRef        string    `json:"avatar_ref,omitempty"`
	MemberSince      time.Time `gorm:"not null" json:"member_since"`
}
