package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.New("error", "json")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := NewFileStore(path, quietLogger())
	ctx := context.Background()

	want := PatientDetails{Name: "Ada Lovelace", Email: "ada@example.com"}
	if err := store.SavePatient(ctx, want); err != nil {
		t.Fatalf("SavePatient: %v", err)
	}
	if err := store.SaveDebug(ctx, DebugSettings{ShowIDs: true}); err != nil {
		t.Fatalf("SaveDebug: %v", err)
	}

	// A fresh instance must restore the identical strings.
	reopened := NewFileStore(path, quietLogger())
	got, err := reopened.LoadPatient(ctx)
	if err != nil {
		t.Fatalf("LoadPatient: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}

	dbg, err := reopened.LoadDebug(ctx)
	if err != nil {
		t.Fatalf("LoadDebug: %v", err)
	}
	if !dbg.ShowIDs || dbg.ShowCache {
		t.Fatalf("debug settings mismatch: %+v", dbg)
	}
}

func TestFileStoreSaveDebugKeepsPatient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := NewFileStore(path, quietLogger())
	ctx := context.Background()

	if err := store.SavePatient(ctx, PatientDetails{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("SavePatient: %v", err)
	}
	if err := store.SaveDebug(ctx, DebugSettings{ShowCache: true}); err != nil {
		t.Fatalf("SaveDebug: %v", err)
	}

	got, _ := store.LoadPatient(ctx)
	if got.Name != "Ada" {
		t.Fatalf("SaveDebug clobbered patient details: %+v", got)
	}
}

func TestFileStoreMissingAndCorrupted(t *testing.T) {
	ctx := context.Background()

	missing := NewFileStore(filepath.Join(t.TempDir(), "nope.json"), quietLogger())
	if got, err := missing.LoadPatient(ctx); err != nil || got != (PatientDetails{}) {
		t.Fatalf("missing file should yield defaults, got %+v err=%v", got, err)
	}

	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	corrupted := NewFileStore(path, quietLogger())
	if got, err := corrupted.LoadDebug(ctx); err != nil || got != (DebugSettings{}) {
		t.Fatalf("corrupted file should yield defaults, got %+v err=%v", got, err)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, quietLogger())
	ctx := context.Background()

	want := PatientDetails{Name: "Grace Hopper", Email: "grace@example.com"}
	if err := store.SavePatient(ctx, want); err != nil {
		t.Fatalf("SavePatient: %v", err)
	}

	fresh := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), quietLogger())
	got, err := fresh.LoadPatient(ctx)
	if err != nil {
		t.Fatalf("LoadPatient: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}
}

func TestRedisStoreCorruptedValue(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set(patientKey, "}}}garbage")

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), quietLogger())
	got, err := store.LoadPatient(context.Background())
	if err != nil || got != (PatientDetails{}) {
		t.Fatalf("corrupted value should yield defaults, got %+v err=%v", got, err)
	}
}

func TestRedisStoreMissingKey(t *testing.T) {
	mr := miniredis.RunT(t)

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), quietLogger())
	got, err := store.LoadDebug(context.Background())
	if err != nil || got != (DebugSettings{}) {
		t.Fatalf("missing key should yield defaults, got %+v err=%v", got, err)
	}
}
