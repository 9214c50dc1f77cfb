package db

import "testing"

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	d, err := Open("file:dbmigrate?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := migrate(d); err != nil {
		t.Fatalf("second migrate should be a no-op: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}
	if _, err := d.Exec(`INSERT INTO sessions (slot, uid, token) VALUES (1, 'u', 't')`); err != nil {
		t.Fatalf("sessions table missing: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO sessions (slot, uid, token) VALUES (2, 'u', 't')`); err == nil {
		t.Fatalf("expected single-slot constraint to reject slot 2")
	}
}
