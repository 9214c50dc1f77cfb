package testutil

import (
	"database/sql"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"droneFoodOrdering/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so every connection in the pool sees the same DB.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

const tokenSecret = "fake-backend-secret"

// SignIDToken mints an HS256 ID token shaped like the backend's.
// Empty uid and zero exp are left out of the claims.
func SignIDToken(uid, email string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{"email": email}
	if uid != "" {
		claims["user_id"] = uid
	}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tokenSecret))
}

// GenerateIDToken is SignIDToken for tests.
func GenerateIDToken(t *testing.T, uid, email string, exp time.Time) string {
	t.Helper()
	s, err := SignIDToken(uid, email, exp)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
