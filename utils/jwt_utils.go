package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs a token carrying the account ID and its scope
// ("user" or "admin").
func GenerateToken(id int64, scope, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":    id,
		"scope": scope,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and returns the account ID and scope.
func ParseToken(tokenString, secret string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	scope, ok := claims["scope"].(string)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	return int64(id), scope, nil
}
