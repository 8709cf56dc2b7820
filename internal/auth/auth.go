// Package auth is the external account collaborator: the session core only
// ever sees Authenticate(token) -> username. Accounts are bcrypt-hashed in
// an in-memory store and tokens are HS256 JWTs.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator verifies an opaque session token. This is the only auth
// surface the session gateway consumes.
type Authenticator interface {
	Authenticate(token string) (username string, ok bool)
}

// TokenService issues and verifies HS256 JWTs carrying the username.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"uname": username,
		"exp":   time.Now().Add(s.ttl).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "mingle",
		"sub":   "user-auth",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Authenticate implements Authenticator.
func (s *TokenService) Authenticate(tokenStr string) (string, bool) {
	if tokenStr == "" {
		return "", false
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	uname, ok := claims["uname"].(string)
	if !ok || uname == "" {
		return "", false
	}
	return uname, true
}
