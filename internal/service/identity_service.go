// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"time"

	"pawprints/internal/identity"
	"pawprints/internal/models"
	"pawprints/internal/observability"
	"pawprints/internal/repository"
	"pawprints/internal/sessions"
	"pawprints/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// IdentityService reconciles external provider identities with local
// accounts. The provider subject id is hashed immediately and only the hash
// ever reaches the store.
type IdentityService struct {
	users    repository.UserRepository
	sessions *sessions.Manager
}

// ResolveResult is the outcome of an external authentication.
// Exactly one of SessionToken or RegistrationToken is set: a session when
// the identity maps to an existing account, a registration token when the
// caller still has to pick a username.
type ResolveResult struct {
	User              *models.User
	SessionToken      string
	RegistrationToken string
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(users repository.UserRepository, sm *sessions.Manager) *IdentityService {
	return &IdentityService{users: users, sessions: sm}
}

// Resolve maps a verified provider subject id to a local account. Unknown
// identities get a registration token; no account row is created until the
// username is chosen.
func (s *IdentityService) Resolve(ctx context.Context, providerSubjectID string) (*ResolveResult, error) {
	if providerSubjectID == "" {
		return nil, models.NewValidationError("provider subject id is required")
	}
	hashed := identity.HashSubject(providerSubjectID)

	span, ctx := observability.NewSpan(ctx, "identity.resolve")
	defer span.End()

	user, err := s.users.GetByHashedProviderID(ctx, hashed)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Bool("identity.known", user != nil))

	if user == nil {
		token, err := s.sessions.IssueRegistration(hashed)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return &ResolveResult{RegistrationToken: token}, nil
	}

	token, err := s.sessions.IssueSession(user.ID, user.Username, true)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &ResolveResult{User: user, SessionToken: token}, nil
}

// Register completes a pending registration: it binds the hashed identity
// carried by the registration token to a freshly chosen username and logs
// the new account in.
func (s *IdentityService) Register(ctx context.Context, registrationToken, username string) (*models.User, string, error) {
	hashed, err := s.sessions.VerifyRegistration(ctx, registrationToken)
	if err != nil {
		return nil, "", err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", err
	}

	span, ctx := observability.NewSpan(ctx, "identity.register")
	defer span.End()

	// The identity may have completed registration in another tab since the
	// token was issued.
	existing, err := s.users.GetByHashedProviderID(ctx, hashed)
	if err != nil {
		span.SetError(err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("this identity is already registered")
	}

	user := &models.User{
		Username:         username,
		HashedProviderID: hashed,
		AvatarRef:        "/api/avatar/" + username,
		MemberSince:      time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.SetError(err)
		return nil, "", err
	}
	observability.RegistrationsTotal.Inc()

	token, err := s.sessions.IssueSession(user.ID, user.Username, false)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// Logout revokes the session's jti so the token stops verifying before its
// natural expiry.
func (s *IdentityService) Logout(ctx context.Context, claims *sessions.SessionClaims) error {
	return s.sessions.Revoke(ctx, claims.JTI, claims.ExpiresAt)
}
