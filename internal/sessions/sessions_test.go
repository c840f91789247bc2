package sessions

import (
	"context"
	"testing"
	"time"

	"pawprints/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-sessions-0123456789abcdef"

func newManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(testSecret, rdb), mr
}

func TestManager_SessionRoundTrip(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)
	ctx := context.Background()

	token, err := m.IssueSession(42, "DogLover", true)
	require.NoError(t, err)

	claims, err := m.VerifySession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "DogLover", claims.Username)
	assert.True(t, claims.Resumed)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestManager_RegistrationRoundTrip(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)
	ctx := context.Background()

	token, err := m.IssueRegistration("6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b")
	require.NoError(t, err)

	hashed, err := m.VerifyRegistration(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b", hashed)
}

func TestManager_AudienceSeparation(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)
	ctx := context.Background()

	session, err := m.IssueSession(1, "alice", false)
	require.NoError(t, err)
	registration, err := m.IssueRegistration("some-hash")
	require.NoError(t, err)

	// A registration token must never pass as a session, or vice versa.
	_, err = m.VerifySession(ctx, registration)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = m.VerifyRegistration(ctx, session)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestManager_Revoke(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)
	ctx := context.Background()

	token, err := m.IssueSession(7, "bob", true)
	require.NoError(t, err)

	claims, err := m.VerifySession(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims.JTI, claims.ExpiresAt))

	_, err = m.VerifySession(ctx, token)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestManager_RevocationFailsOpen(t *testing.T) {
	t.Parallel()
	m, mr := newManager(t)
	ctx := context.Background()

	token, err := m.IssueSession(7, "bob", true)
	require.NoError(t, err)

	mr.Close()

	// With the blacklist store down, valid tokens still verify.
	claims, err := m.VerifySession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestManager_RejectsForgedTokens(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)
	ctx := context.Background()

	t.Run("wrong secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "1",
			"iss": Issuer,
			"aud": AudienceSession,
			"exp": time.Now().Add(time.Hour).Unix(),
			"jti": "forged",
		})
		signed, err := forged.SignedString([]byte("not-the-real-secret"))
		require.NoError(t, err)

		_, err = m.VerifySession(ctx, signed)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "1",
			"iss": Issuer,
			"aud": AudienceSession,
			"exp": time.Now().Add(time.Hour).Unix(),
			"jti": "forged",
		})
		signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.VerifySession(ctx, signed)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "1",
			"iss": Issuer,
			"aud": AudienceSession,
			"exp": time.Now().Add(-time.Hour).Unix(),
			"jti": "stale",
		})
		signed, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = m.VerifySession(ctx, signed)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.VerifySession(ctx, "not-a-token")
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})
}
