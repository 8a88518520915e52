package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and validates the bearer tokens used by every login
// path. The same strategy is used for regular and admin sessions; what a
// token may do is decided by the authorization layer, not by the token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a new JWT for a given user ID.
func (t *TokenIssuer) GenerateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,                         // subject is the user ID
		"exp": time.Now().Add(t.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken parses and validates a JWT token string.
// It returns the user ID (subject) if the token is valid.
func (t *TokenIssuer) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but our HMAC method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, err // expired, malformed, bad signature
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			return 0, errors.New("invalid subject claim")
		}
		// JSON numbers arrive as float64
		return int64(userIDFloat), nil
	}
	return 0, errors.New("invalid token")
}
