package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"droneFoodOrdering/internal/testutil"
	"droneFoodOrdering/models"
)

// run executes foodctl with args against the given backend and returns
// what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setup(t *testing.T) *testutil.FakeBackend {
	t.Helper()
	fb := testutil.NewFakeBackend()
	srv := fb.Start(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("SESSION_DB_PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("LOG_LEVEL", "error")

	fb.AddAccount(models.User{UID: "u1", Email: "an@example.com", Name: "An"}, "secret1")
	fb.Restaurants = []models.Restaurant{{ID: "r1", Name: "Grill", Active: true}}
	fb.Menus["r1"] = []models.MenuItem{{ID: "p1", Name: "Burger", Price: decimal.RequireFromString("4.50")}}
	fb.Geocodes["227 Nguyen Van Cu"] = models.Coordinates{Lat: 10.7626, Lng: 106.6821}
	return fb
}

func TestOrderFlow(t *testing.T) {
	fb := setup(t)

	out, err := run(t, "login", "--email", "an@example.com", "--password", "secret1")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Signed in as an@example.com") {
		t.Fatalf("unexpected login output: %q", out)
	}

	for i := 0; i < 2; i++ {
		if out, err := run(t, "cart", "add", "r1", "p1"); err != nil {
			t.Fatalf("cart add: %v\n%s", err, out)
		}
	}
	out, err = run(t, "cart", "show")
	if err != nil {
		t.Fatalf("cart show: %v", err)
	}
	if !strings.Contains(out, "x2") || !strings.Contains(out, "9.00") {
		t.Fatalf("cart show output missing line: %q", out)
	}

	out, err = run(t, "order", "place", "r1", "--name", "An", "--phone", "0900", "--address", "227 Nguyen Van Cu")
	if err != nil {
		t.Fatalf("order place: %v\n%s", err, out)
	}
	if !strings.Contains(out, "placed: 1 item(s), 9.00") {
		t.Fatalf("unexpected place output: %q", out)
	}
	if got := fb.CartOf("u1"); len(got) != 0 {
		t.Fatalf("cart should be empty after ordering, got %+v", got)
	}

	out, err = run(t, "order", "list", "--status", "pending")
	if err != nil {
		t.Fatalf("order list: %v", err)
	}
	if !strings.Contains(out, "Grill") {
		t.Fatalf("order list missing order: %q", out)
	}

	if _, err := run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := run(t, "whoami"); err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("whoami after logout: %v", err)
	}
}

func TestBackendMessageIsShown(t *testing.T) {
	setup(t)
	_, err := run(t, "login", "--email", "an@example.com", "--password", "wrong")
	if err == nil || err.Error() != "invalid credentials" {
		t.Fatalf("expected backend message, got %v", err)
	}
}

func TestGeocode(t *testing.T) {
	setup(t)
	out, err := run(t, "geocode", "227", "Nguyen", "Van", "Cu")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !strings.Contains(out, "10.762600, 106.682100") {
		t.Fatalf("unexpected geocode output: %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	if newLogger("debug") == nil || newLogger("bogus") == nil {
		t.Fatalf("expected a logger")
	}
}
