package http

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/hibernator/internal/clock"
)

// Token claim values identifying the runner to the core.
const (
	DefaultSubject  = "hibernator-runner"
	IdentityMachine = "machine"
	RoleRunner      = "runner"
	DefaultTokenTTL = time.Minute
)

// TokenSource signs short-lived HS256 bearer tokens.
type TokenSource struct {
	Secret  []byte
	Subject string
	Roles   []string
	TTL     time.Duration
}

// NewTokenSource creates a token source for the runner identity.
func NewTokenSource(secret string) *TokenSource {
	return &TokenSource{Secret: []byte(secret), Subject: DefaultSubject, Roles: []string{RoleRunner}, TTL: DefaultTokenTTL}
}

// Token returns a freshly signed token.
func (s *TokenSource) Token() (string, error) {
	if len(s.Secret) == 0 {
		return "", fmt.Errorf("token secret was empty")
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   s.Subject,
		"type":  IdentityMachine,
		"roles": s.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
