package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydrateMeAPI/internal/testutil"
)

func echoAuthID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authID, ok := GetAuthID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(authID))
	})
}

func TestAuthMiddleware(t *testing.T) {
	verifier := &LocalVerifier{Secret: []byte(testutil.TestSecret)}
	handler := AuthMiddleware(verifier)(echoAuthID())

	valid, err := testutil.GenerateTestJWT("user_123", testutil.TestSecret, time.Hour)
	require.NoError(t, err)
	expired, err := testutil.GenerateTestJWT("user_123", testutil.TestSecret, -time.Hour)
	require.NoError(t, err)
	wrongKey, err := testutil.GenerateTestJWT("user_123", "another-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user_123"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"no bearer prefix", valid, http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"wrong signing key", "Bearer " + wrongKey, http.StatusUnauthorized, ""},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), "error")
			}
		})
	}
}

func TestLocalVerifierRejectsMissingSubject(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testutil.TestSecret))
	require.NoError(t, err)

	_, err = (&LocalVerifier{Secret: []byte(testutil.TestSecret)}).Verify(t.Context(), signed)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestLocalVerifierRejectsOtherAlgorithms(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{
		"sub": "user_123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testutil.TestSecret))
	require.NoError(t, err)

	_, err = (&LocalVerifier{Secret: []byte(testutil.TestSecret)}).Verify(t.Context(), signed)
	assert.Error(t, err)
}

func TestGetAuthID(t *testing.T) {
	_, ok := GetAuthID(t.Context())
	assert.False(t, ok)

	_, ok = GetAuthID(WithAuthID(t.Context(), ""))
	assert.False(t, ok)

	id, ok := GetAuthID(WithAuthID(t.Context(), "user_1"))
	assert.True(t, ok)
	assert.Equal(t, "user_1", id)
}
