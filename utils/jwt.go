package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

func GenerateJWT(secret []byte, ttl time.Duration, userID uint, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseJWT validates an HS256 token and returns its user id and email claims.
func ParseJWT(secret []byte, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	// numeric claims come back as float64 after JSON decoding
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return 0, "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return uint(id), email, nil
}
