package services

import (
	"errors"
	"testing"
	"time"

	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTTLs = TokenTTLs{Admin: 24 * time.Hour, Hidden: 10 * time.Minute, Bookmark: 30 * time.Minute}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)

	resp, err := issuer.Issue(models.ScopeAdmin, "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 86400, resp.ExpiresIn)

	claims, err := issuer.Verify(models.ScopeAdmin, resp.Token, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, models.ScopeAdmin, claims.Scope)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenIssuer_DefaultLifetimes(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)

	hidden, err := issuer.Issue(models.ScopeHidden, "hidden", "")
	require.NoError(t, err)
	assert.Equal(t, 600, hidden.ExpiresIn)

	bookmark, err := issuer.Issue(models.ScopeBookmark, "bookmark", "")
	require.NoError(t, err)
	assert.Equal(t, 1800, bookmark.ExpiresIn)
}

func TestTokenIssuer_ScopesAreSeparated(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)
	scopes := []models.TokenScope{models.ScopeAdmin, models.ScopeHidden, models.ScopeBookmark}

	for _, issued := range scopes {
		resp, err := issuer.Issue(issued, "x", "")
		require.NoError(t, err)
		for _, checked := range scopes {
			_, err := issuer.Verify(checked, resp.Token, "")
			if issued == checked {
				assert.NoError(t, err, "%s token under %s", issued, checked)
			} else {
				assert.True(t, errors.Is(err, common.ErrUnauthorized), "%s token under %s", issued, checked)
			}
		}
	}
}

func TestTokenIssuer_ExpiredTokenIsUnauthorized(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	issuer := newTokenIssuer("secret", testTTLs, clock.Now)

	resp, err := issuer.Issue(models.ScopeBookmark, "bookmark", "")
	require.NoError(t, err)

	clock.t = clock.t.Add(31 * time.Minute)
	_, err = issuer.Verify(models.ScopeBookmark, resp.Token, "")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, "unauthorized", common.PublicMessage(err))
}

func TestTokenIssuer_MalformedAndForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)
	other := NewTokenIssuer("other-secret", testTTLs)

	foreign, err := other.Issue(models.ScopeAdmin, "admin", "")
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreign.Token} {
		_, err := issuer.Verify(models.ScopeAdmin, token, "")
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
		assert.Equal(t, "unauthorized", common.PublicMessage(err))
	}
}

func TestTokenIssuer_RejectsMasterKeySignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)

	claims := scopedClaims{
		Scope: models.ScopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"navhub:admin"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(models.ScopeAdmin, token, "")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestTokenIssuer_IPBinding(t *testing.T) {
	issuer := NewTokenIssuer("secret", testTTLs)

	resp, err := issuer.Issue(models.ScopeAdmin, "admin", "203.0.113.5")
	require.NoError(t, err)

	claims, err := issuer.Verify(models.ScopeAdmin, resp.Token, "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.5", claims.ClientIP)

	_, err = issuer.Verify(models.ScopeAdmin, resp.Token, "203.0.113.6")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}
