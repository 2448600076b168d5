// Package static verifica un único bearer token configurado por entorno (API_TOKEN).
package static

import (
	"context"
	"crypto/subtle"
	"strings"

	"pet-meds/internal/ports/auth"
)

// DefaultUser es el UserID de los claims cuando no se indica otro.
const DefaultUser = "owner"

type Verifier struct {
	token []byte
	user  string
}

var _ auth.AuthVerifier = (*Verifier)(nil)

// New devuelve nil si token está vacío: sin token no hay verificación (modo dev).
func New(token, user string) *Verifier {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	user = strings.TrimSpace(user)
	if user == "" {
		user = DefaultUser
	}
	return &Verifier{token: []byte(token), user: user}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), v.token) != 1 {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{UserID: v.user}, nil
}
