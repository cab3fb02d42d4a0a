package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/realtime-session-service/internal/domain/model"
)

const testSecret = "super-secret-key"

func signToken(t *testing.T, secret string, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"name":  "Alice",
		"email": "alice@example.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)
	sub := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	identity, err := v.Verify(signToken(t, testSecret, sub.String(), exp))
	require.NoError(t, err)
	assert.Equal(t, sub, identity.Sub)
	assert.Equal(t, "Alice", identity.Name)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, exp.Unix(), identity.ExpiresAt)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, uuid.NewString(), time.Now().Add(-time.Minute))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, "other-secret", uuid.NewString(), time.Now().Add(time.Hour))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformed(t *testing.T) {
	v := NewVerifier(testSecret)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestVerifyMissingExpiry(t *testing.T) {
	v := NewVerifier(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"name": "Alice",
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyNonUUIDSubject(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsUnexpectedAlg(t *testing.T) {
	v := NewVerifier(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.Error(t, err)
}

// A cached identity must never outlive its token: a hit whose expiry has
// passed is rejected even though the cache TTL has not elapsed.
func TestVerifyCacheRespectsExpiry(t *testing.T) {
	now := time.Now()
	v := &verifier{
		secret: []byte(testSecret),
		now:    func() time.Time { return now },
		cache:  lru.NewLRU[string, model.Identity](cacheSize, nil, cacheTTL),
	}

	token := signToken(t, testSecret, uuid.NewString(), now.Add(2*time.Second))

	_, err := v.Verify(token)
	require.NoError(t, err)

	// Second call is served from the cache.
	_, err = v.Verify(token)
	require.NoError(t, err)

	// Advance past the token expiry while the cache entry is still fresh.
	now = now.Add(5 * time.Second)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
