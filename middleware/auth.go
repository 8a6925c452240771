package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	gojwt "github.com/golang-jwt/jwt/v5"
)

type contextKey string

const AuthIDKey contextKey = "authID"

var ErrMissingSubject = errors.New("token has no subject")

// TokenVerifier checks a bearer token and returns the identity's stable subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ClerkVerifier uses the key set with clerk.SetKey.
type ClerkVerifier struct{}

func (ClerkVerifier) Verify(ctx context.Context, token string) (string, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

type FirebaseVerifier struct {
	Client *auth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	t, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return t.UID, nil
}

// LocalVerifier accepts HS256 tokens signed with a shared secret.
type LocalVerifier struct {
	Secret []byte
}

func (v *LocalVerifier) Verify(ctx context.Context, token string) (string, error) {
	claims := &gojwt.RegisteredClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		return v.Secret, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}), gojwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", gojwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// AuthMiddleware validates bearer tokens and stores the subject in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			subject, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Printf("Token verification failed: %v", err)
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthID(r.Context(), subject)))
		})
	}
}

func WithAuthID(ctx context.Context, authID string) context.Context {
	return context.WithValue(ctx, AuthIDKey, authID)
}

// GetAuthID extracts the authenticated subject from context
func GetAuthID(ctx context.Context) (string, bool) {
	authID, ok := ctx.Value(AuthIDKey).(string)
	return authID, ok && authID != ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
