package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const audiencePrefix = "navhub:"

// TokenIssuer signs and verifies the three scoped bearer tokens.
type TokenIssuer interface {
	// Issue signs a token for scope. A non-empty clientIP binds the token to
	// that address.
	Issue(scope models.TokenScope, subject, clientIP string) (*models.TokenResponse, error)
	// Verify checks signature, audience, scope and expiry. Every failure is
	// reported as common.ErrUnauthorized.
	Verify(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error)
}

type TokenTTLs struct {
	Admin    time.Duration
	Hidden   time.Duration
	Bookmark time.Duration
}

type scopedClaims struct {
	Scope models.TokenScope `json:"scope"`
	IP    string            `json:"ip,omitempty"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	keys map[models.TokenScope][]byte
	ttls map[models.TokenScope]time.Duration
	now  func() time.Time
}

func NewTokenIssuer(secret string, ttls TokenTTLs) TokenIssuer {
	return newTokenIssuer(secret, ttls, time.Now)
}

func newTokenIssuer(secret string, ttls TokenTTLs, now func() time.Time) *tokenIssuer {
	issuer := &tokenIssuer{
		keys: make(map[models.TokenScope][]byte),
		ttls: map[models.TokenScope]time.Duration{
			models.ScopeAdmin:    ttls.Admin,
			models.ScopeHidden:   ttls.Hidden,
			models.ScopeBookmark: ttls.Bookmark,
		},
		now: now,
	}
	for scope := range issuer.ttls {
		issuer.keys[scope] = deriveScopeKey(secret, scope)
	}
	return issuer
}

// deriveScopeKey gives every scope its own HMAC key so a token signed for one
// scope never verifies under another.
func deriveScopeKey(secret string, scope models.TokenScope) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(scope))
	return mac.Sum(nil)
}

func (t *tokenIssuer) Issue(scope models.TokenScope, subject, clientIP string) (*models.TokenResponse, error) {
	key, ok := t.keys[scope]
	if !ok {
		return nil, fmt.Errorf("unknown token scope %q", scope)
	}
	ttl := t.ttls[scope]
	now := t.now()

	claims := scopedClaims{
		Scope: scope,
		IP:    clientIP,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audiencePrefix + string(scope)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.TokenResponse{Token: signed, ExpiresIn: int(ttl / time.Second)}, nil
}

func (t *tokenIssuer) Verify(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error) {
	claims, err := t.parse(scope, token, clientIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	return claims, nil
}

func (t *tokenIssuer) parse(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error) {
	key, ok := t.keys[scope]
	if !ok {
		return nil, fmt.Errorf("unknown token scope %q", scope)
	}
	if token == "" {
		return nil, errors.New("empty token")
	}

	claims := &scopedClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audiencePrefix+string(scope)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Scope != scope {
		return nil, fmt.Errorf("token scope %q, want %q", claims.Scope, scope)
	}
	if claims.IP != "" && claims.IP != clientIP {
		return nil, errors.New("token bound to another address")
	}

	result := &models.TokenClaims{
		Scope:    claims.Scope,
		Subject:  claims.Subject,
		TokenID:  claims.ID,
		ClientIP: claims.IP,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}
