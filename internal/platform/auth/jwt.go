package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/witcharon/salesconnfig/internal/platform/config"
)

// Claims are the subset of the identity provider's access token we care
// about. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService verifies access tokens issued by the hosted auth
// provider. Tokens are HS256-signed with the project JWT secret, so the
// gate can resolve the principal without a network call. Issuing tokens
// is the provider's job, never ours.
type TokenService struct {
	secret []byte
}

func NewTokenService(cfg config.IdentityConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.JWTSecret)}
}

func (s *TokenService) ParseAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// IsExpired reports whether the parse failure was a plain expiry, which
// is the one case worth attempting a refresh for.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
