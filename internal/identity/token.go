package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers missing, malformed, expired, or badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated identity resolved from a verified token.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// Claims is the token payload issued for an account.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret and token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the account carrying subject, email, and role claims.
func (t *TokenIssuer) Issue(account Account) (string, error) {
	now := t.now()
	claims := Claims{
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token's signing method, signature, and expiry, and
// resolves the Principal it carries.
func (t *TokenIssuer) Verify(tokenString string) (Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Principal{}, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  strings.ToLower(strings.TrimSpace(claims.Role)),
	}, nil
}
