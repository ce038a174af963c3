package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oakpoint-health/booking-portal/internal/prefs"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

type recordingPrefStore struct {
	mu      sync.Mutex
	patient prefs.PatientDetails
	debug   prefs.DebugSettings
	saves   int
}

func (s *recordingPrefStore) LoadPatient(ctx context.Context) (prefs.PatientDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patient, nil
}

func (s *recordingPrefStore) SavePatient(ctx context.Context, p prefs.PatientDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = p
	s.saves++
	return nil
}

func (s *recordingPrefStore) LoadDebug(ctx context.Context) (prefs.DebugSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debug, nil
}

func (s *recordingPrefStore) SaveDebug(ctx context.Context, d prefs.DebugSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = d
	return nil
}

func (s *recordingPrefStore) savedPatient() prefs.PatientDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patient
}

func newTestApp(store prefs.Store, quiet time.Duration) *portalApp {
	app := &portalApp{
		logger:    logging.NewWithWriter("error", "json", io.Discard),
		prefStore: store,
		ui:        newConsoleUI(io.Discard),
	}
	app.saver = prefs.NewDebouncedSaver(quiet, app.savePreferences)
	return app
}

// The debounce timer writes preferences on its own goroutine while the REPL
// keeps mutating them; rapid edits during in-flight saves must be safe and
// the final flush must persist the last value. Run with -race.
func TestPreferenceEditsConcurrentWithTimerSaves(t *testing.T) {
	store := &recordingPrefStore{}
	app := newTestApp(store, time.Millisecond)

	for i := 0; i < 200; i++ {
		app.setPatientName(fmt.Sprintf("Ada %d", i))
		if i%3 == 0 {
			time.Sleep(2 * time.Millisecond) // let some timer saves fire mid-edit
		}
	}
	app.setPatientEmail("ada@example.com")
	time.Sleep(10 * time.Millisecond)
	app.saver.Flush()

	got := store.savedPatient()
	if got.Name != "Ada 199" || got.Email != "ada@example.com" {
		t.Fatalf("last edit not persisted: %+v", got)
	}
}

func TestSavePreferencesSnapshotsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	fileStore := prefs.NewFileStore(path, logging.NewWithWriter("error", "json", io.Discard))
	app := newTestApp(fileStore, time.Hour)

	app.setPatientName("Grace Hopper")
	app.setPatientEmail("grace@example.com")
	app.saver.Flush()

	got, err := fileStore.LoadPatient(context.Background())
	if err != nil {
		t.Fatalf("LoadPatient: %v", err)
	}
	if got.Name != "Grace Hopper" || got.Email != "grace@example.com" {
		t.Fatalf("flush did not persist edits: %+v", got)
	}
}
