// Package validation provides input validation utilities
package validation

import (
	"regexp"
	"strings"

	"pawprints/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Route segments and API keywords that would collide with application paths
// if allowed as usernames (avatars are served under /api/avatar/:username).
var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"auth":    {},
	"avatar":  {},
	"emojis":  {},
	"health":  {},
	"login":   {},
	"logout":  {},
	"me":      {},
	"metrics": {},
	"posts":   {},
	"users":   {},
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return models.NewValidationError("username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return models.NewValidationError("username must not exceed 30 characters")
	}

	// Only allow alphanumeric, underscores, and hyphens
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username can only contain letters, numbers, underscores, and hyphens")
	}

	// Cannot start or end with underscore/hyphen
	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return models.NewValidationError("username cannot start or end with underscore or hyphen")
	}

	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return models.NewValidationError("username is reserved")
	}

	return nil
}

// ValidatePetCategory checks the free-form pet tag on a post.
func ValidatePetCategory(pet string) error {
	if strings.TrimSpace(pet) == "" {
		return models.NewValidationError("pet category is required")
	}
	if len(pet) > 40 {
		return models.NewValidationError("pet category must not exceed 40 characters")
	}
	return nil
}
