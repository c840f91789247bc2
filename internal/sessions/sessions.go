// Package sessions issues and verifies the signed tokens that carry login
// state: full session tokens for registered users and short-lived
// registration tokens for identities that have authenticated but not yet
// picked a username.
package sessions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pawprints/internal/models"
	"pawprints/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Issuer is the iss claim stamped on every token we mint.
	Issuer = "pawprints-api"
	// AudienceSession marks a full session token.
	AudienceSession = "pawprints-client"
	// AudienceRegistration marks a pending-registration token.
	AudienceRegistration = "pawprints-register"

	sessionTTL      = 7 * 24 * time.Hour
	registrationTTL = 15 * time.Minute
)

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID    uint
	Username  string
	JTI       string
	Resumed   bool
	ExpiresAt time.Time
}

// Manager signs, verifies, and revokes tokens. Revocation is tracked in
// Redis keyed by jti so a logout invalidates the token before its natural
// expiry.
type Manager struct {
	secret []byte
	redis  *redis.Client
}

// NewManager returns a Manager signing with the given secret.
func NewManager(secret string, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), redis: rdb}
}

// IssueSession mints a session token for a registered user. The resumed flag
// distinguishes a returning login from a freshly registered account.
func (m *Manager) IssueSession(userID uint, username string, resumed bool) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"resumed":  resumed,
		"iss":      Issuer,
		"aud":      AudienceSession,
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// IssueRegistration mints a short-lived token carrying the hashed provider
// identity of someone who authenticated but has no account yet. The token is
// the only place that pending state lives; the server stores nothing.
func (m *Manager) IssueRegistration(hashedProviderID string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"hashed_provider_id": hashedProviderID,
		"iss":                Issuer,
		"aud":                AudienceRegistration,
		"exp":                now.Add(registrationTTL).Unix(),
		"iat":                now.Unix(),
		"nbf":                now.Unix(),
		"jti":                generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifySession validates a session token and returns its claims. Revoked
// tokens fail even when the signature is still valid.
func (m *Manager) VerifySession(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims, err := m.parse(tokenString, AudienceSession)
	if err != nil {
		return nil, err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, models.NewUnauthorizedError("invalid or expired token")
	}
	if m.isRevoked(ctx, jti) {
		return nil, models.NewUnauthorizedError("token has been revoked")
	}

	subStr, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("invalid or expired token")
	}
	username, _ := claims["username"].(string)
	resumed, _ := claims["resumed"].(bool)

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}

	return &SessionClaims{
		UserID:    uint(userID),
		Username:  username,
		JTI:       jti,
		Resumed:   resumed,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyRegistration validates a registration token and returns the hashed
// provider identity it carries.
func (m *Manager) VerifyRegistration(ctx context.Context, tokenString string) (string, error) {
	claims, err := m.parse(tokenString, AudienceRegistration)
	if err != nil {
		return "", err
	}

	jti, _ := claims["jti"].(string)
	if jti != "" && m.isRevoked(ctx, jti) {
		return "", models.NewUnauthorizedError("token has been revoked")
	}

	hashed, _ := claims["hashed_provider_id"].(string)
	if hashed == "" {
		return "", models.NewUnauthorizedError("invalid or expired token")
	}
	return hashed, nil
}

// Revoke blacklists a jti until the token's natural expiry.
func (m *Manager) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.redis == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "blacklist_set")
	defer span.End()

	if err := m.redis.Set(ctx, "blacklist:"+jti, "1", ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("session_revoke").Inc()
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (m *Manager) parse(tokenString, audience string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("invalid token claims")
	}
	return claims, nil
}

// isRevoked fails open: an unreachable blacklist store degrades revocation,
// not all logins.
func (m *Manager) isRevoked(ctx context.Context, jti string) bool {
	if m.redis == nil {
		return false
	}

	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "blacklist_check")
	defer span.End()

	exists, err := m.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("session_verify").Inc()
		return false
	}
	return exists > 0
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
