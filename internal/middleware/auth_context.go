package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-meds/internal/ports/auth"
)

// DebugUserHeader fija quién opera cuando no hay API_TOKEN configurado.
const DebugUserHeader = "X-Debug-User-ID"

type claimsKey struct{}

// AuthContext resuelve los claims del request y los deja en el contexto.
// Nunca corta: un request sin claims sigue igual y RequireAuth decide el 401.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := resolveClaims(r, verifier); ok {
				r = r.WithContext(WithClaims(r.Context(), c))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveClaims: sin verifier vale el header de debug; con verifier solo un Bearer válido.
func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
		return auth.Claims{UserID: uid}, uid != ""
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return auth.Claims{}, false
	}
	c, err := verifier.Verify(r.Context(), token)
	if err != nil {
		return auth.Claims{}, false
	}
	return c, true
}

// RequireAuth corta con 401 si hay verifier configurado y el request no trae claims.
// Sin verifier (modo dev) deja pasar todo.
func RequireAuth(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier != nil {
				if _, ok := GetClaims(r.Context()); !ok {
					w.Header().Set("WWW-Authenticate", `Bearer realm="pet-meds"`)
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
