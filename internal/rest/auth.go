package rest

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Auth errors.
var (
	ErrInvalidToken = errors.New("rest: invalid token")
	ErrTokenExpired = errors.New("rest: token expired")
)

// RealmAdminRole grants access to a realm's user search endpoints.
const RealmAdminRole = "realm-admin"

// Claims holds the JWT claims of an admin API token.
// The acting user is stored in the standard "sub" claim.
type Claims struct {
	Realm string   `json:"realm"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Authenticator issues and verifies bearer tokens.
type Authenticator struct {
	jwtSecret []byte
	issuer    string
	tokenTTL  time.Duration
	mu        sync.RWMutex
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(jwtSecret string, tokenTTL time.Duration, issuer string) *Authenticator {
	return &Authenticator{
		jwtSecret: []byte(jwtSecret),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
	}
}

// SetTokenTTL updates the token TTL at runtime.
func (a *Authenticator) SetTokenTTL(ttl time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokenTTL = ttl
}

// GetTokenTTL returns the current token TTL.
func (a *Authenticator) GetTokenTTL() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tokenTTL
}

// IssueToken creates a signed token for subject in realm.
func (a *Authenticator) IssueToken(subject, realm string, roles []string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(a.GetTokenTTL())

	claims := Claims{
		Realm: realm,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates a token and returns its claims.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return a.jwtSecret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
