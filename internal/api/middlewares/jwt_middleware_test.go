package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func protectedEcho() http.Handler {
	return JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserID(r.Context())
		_, _ = w.Write([]byte(id))
	}))
}

func TestJWTMiddleware(t *testing.T) {
	valid, err := IssueToken(testSecret, time.Hour, "user-1", "a@b.c")
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := IssueToken(testSecret, -time.Minute, "user-1", "a@b.c")
	wrongKey, _ := IssueToken("other", time.Hour, "user-1", "a@b.c")
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, ""},
		{"garbage", "Bearer not.a.jwt", http.StatusForbidden, ""},
		{"expired", "Bearer " + expired, http.StatusForbidden, ""},
		{"wrong key", "Bearer " + wrongKey, http.StatusForbidden, ""},
		{"alg none", "Bearer " + noneAlg, http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protectedEcho().ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestParseTokenClaims(t *testing.T) {
	tok, _ := IssueToken(testSecret, 24*time.Hour, "u-9", "x@y.z")
	claims, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u-9" || claims.Email != "x@y.z" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) < 23*time.Hour {
		t.Errorf("expiry = %v", claims.ExpiresAt)
	}
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	if _, err := IssueToken("", time.Hour, "u", "e"); err == nil {
		t.Error("expected error for empty secret")
	}
}
