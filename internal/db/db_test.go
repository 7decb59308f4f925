package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()

	store, err := Connect(filepath.Join(t.TempDir(), "nested", "journey.db"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return store
}

func exercisePreferences(t *testing.T, store PreferenceStore) {
	ctx := context.Background()
	client := "client-" + time.Now().Format("150405.000000000")

	if _, ok, err := store.Get(ctx, client, "preferredLanguage"); err != nil || ok {
		t.Fatalf("Get on empty store = %v, %v", ok, err)
	}

	if err := store.Set(ctx, client, "preferredLanguage", "en"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, client, "preferredLanguage", "pt-br"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, client, "preferredLanguage")
	if err != nil || !ok {
		t.Fatalf("Get = %q, %v, %v", value, ok, err)
	}
	if value != "pt-br" {
		t.Errorf("value = %q, want the latest write", value)
	}

	if _, ok, _ := store.Get(ctx, "someone-else", "preferredLanguage"); ok {
		t.Error("preferences leaked across clients")
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSQLitePreferences(t *testing.T) {
	exercisePreferences(t, openSQLite(t))
}

func TestSQLiteEnsureSchemaIsRepeatable(t *testing.T) {
	store := openSQLite(t)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Errorf("second EnsureSchema failed: %v", err)
	}
}

func TestSQLiteDeleteStale(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	store.Set(ctx, "old", "preferredLanguage", "en")
	store.Set(ctx, "new", "preferredLanguage", "en")

	// Backdate one row
	_, err := store.conn.ExecContext(ctx,
		"UPDATE preferences SET updated_at = ? WHERE client_id = ?",
		time.Now().Add(-400*24*time.Hour).UTC().Format(time.RFC3339), "old")
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := store.DeleteStale(ctx, time.Now().Add(-365*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteStale failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, want 1", deleted)
	}
	if _, ok, _ := store.Get(ctx, "new", "preferredLanguage"); !ok {
		t.Error("recent preference was deleted")
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	store, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "journey.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*DB); !ok {
		t.Errorf("Open without DATABASE_URL returned %T, want *DB", store)
	}
	exercisePreferences(t, store)
}

func TestPostgresPreferences(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping PostgreSQL test")
	}

	store, err := Open(context.Background(), databaseURL, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	exercisePreferences(t, store)
}

func TestCleanupKeepsRecentPreferences(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()
	store.Set(ctx, "client", "preferredLanguage", "en")

	// Sub-day retention is rounded up to one day
	if err := Cleanup(ctx, store, time.Hour); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "client", "preferredLanguage"); !ok {
		t.Error("Cleanup removed a preference written just now")
	}
}
