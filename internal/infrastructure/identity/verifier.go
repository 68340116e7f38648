package identity

import (
	"fmt"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

// accessClaims — полезная нагрузка access-токена провайдера.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier проверяет access-токены, подписанные секретом провайдера (HS256).
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify возвращает данные токена. Любая ошибка проверки оборачивает e.ErrUnauthorized.
func (v *Verifier) Verify(token string) (*usecase.AccessClaims, error) {
	var claims accessClaims
	parsed, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, e.ErrUnauthorized
	}

	return &usecase.AccessClaims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
