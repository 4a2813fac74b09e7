package models

import "time"

// TokenScope identifies which capability a bearer token grants.
type TokenScope string

const (
	ScopeAdmin    TokenScope = "admin"
	ScopeHidden   TokenScope = "hidden"
	ScopeBookmark TokenScope = "bookmark"
)

// TokenResponse is returned by every token-issuing endpoint.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// TokenClaims is the verified content of a token, stored on the request context.
type TokenClaims struct {
	Scope     TokenScope
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ClientIP  string
}
