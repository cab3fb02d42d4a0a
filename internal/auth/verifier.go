package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/webitel/realtime-session-service/internal/domain/model"
)

// Verification error kinds. Handlers only need the kind to choose a
// response, so these are sentinels rather than structured types.
var (
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
)

const (
	cacheSize = 1024
	cacheTTL  = time.Minute
)

// Verifier validates bearer tokens against a shared HS256 secret.
type Verifier interface {
	Verify(token string) (model.Identity, error)
}

type verifier struct {
	secret []byte
	now    func() time.Time

	// cache short-circuits signature verification for repeated presentations
	// of the same token, a common pattern during client reconnect storms.
	// Expiry is still re-checked on every hit.
	cache *lru.LRU[string, model.Identity]
}

// NewVerifier builds a Verifier for the given symmetric secret.
func NewVerifier(secret string) Verifier {
	return &verifier{
		secret: []byte(secret),
		now:    time.Now,
		cache:  lru.NewLRU[string, model.Identity](cacheSize, nil, cacheTTL),
	}
}

type tokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify validates the token's signature and expiry and returns the
// identity snapshot carried in its claims. It is a pure function of
// (token, secret, current time); no network calls.
func (v *verifier) Verify(token string) (model.Identity, error) {
	if identity, ok := v.cache.Get(token); ok {
		if identity.ExpiresAt <= v.now().Unix() {
			v.cache.Remove(token)
			return model.Identity{}, ErrTokenExpired
		}
		return identity, nil
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return model.Identity{}, mapError(err)
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: subject is not a valid uuid", ErrTokenMalformed)
	}

	identity := model.Identity{
		Sub:       sub,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	v.cache.Add(token, identity)
	return identity, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
