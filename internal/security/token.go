package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMalformedClaims = errors.New("token claims incomplete")

type AccessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Origin string `json:"origin"`
	jwt.RegisteredClaims
}

type TokenSubject struct {
	UserID string
	Role   string
	Origin string
}

func GenerateAccessToken(secret string, issuer string, subject TokenSubject, ttl time.Duration) (string, *AccessClaims, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: subject.UserID,
		Role:   subject.Role,
		Origin: subject.Origin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject.UserID,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, &claims, nil
}

func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == "" || claims.Role == "" || claims.Origin == "" {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}
