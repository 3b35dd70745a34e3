package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/influxity/influxity/internal/pkg/env"
)

const tokenLifetime = 24 * time.Hour

// Claims are the JWT claims carried by API bearer tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("security: invalid token")

func secret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

// GenerateToken issues a signed bearer token for a user.
func GenerateToken(userID uint, email, role string) (string, error) {
	if len(secret()) == 0 {
		return "", errors.New("security: JWT_SECRET is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	return token.SignedString(secret())
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
