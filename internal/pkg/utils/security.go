package utils

import (
	"errors"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// IdentityClaims carries the caller identity as the subject plus the optional email claim.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateIdentityJWT signs an HS256 token whose subject is the caller identity.
func GenerateIdentityJWT(identity, email, secret string, expiry time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", exceptions.ErrServerProcess(err)
	}
	return tokenString, nil
}

// ParseIdentityJWT validates an HS256 token and returns its claims. The subject is required.
func ParseIdentityJWT(tokenString, secret string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, exceptions.ErrTokenInvalid(err)
	}
	if !token.Valid {
		return nil, exceptions.ErrTokenInvalid(nil)
	}
	if claims.Subject == "" {
		return nil, exceptions.ErrTokenInvalid(errors.New(constvars.ErrDevAuthSubjectMissing))
	}
	return claims, nil
}
