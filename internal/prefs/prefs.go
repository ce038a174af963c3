package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

// PatientDetails is the identity the portal remembers between sessions.
type PatientDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DebugSettings are the debug-panel toggles. ShowIDs affects which fields are
// rendered; ShowCache only controls whether the cache diagnostic is shown.
type DebugSettings struct {
	ShowIDs   bool `json:"showIds"`
	ShowCache bool `json:"showCache"`
}

// Store persists user preferences. Implementations must treat missing or
// corrupted values as absent and return zero values rather than failing
// startup.
type Store interface {
	LoadPatient(ctx context.Context) (PatientDetails, error)
	SavePatient(ctx context.Context, p PatientDetails) error
	LoadDebug(ctx context.Context) (DebugSettings, error)
	SaveDebug(ctx context.Context, d DebugSettings) error
}

// fileDocument is the on-disk layout of the file store.
type fileDocument struct {
	PatientDetails PatientDetails `json:"patientDetails"`
	Debug          DebugSettings  `json:"debug"`
}

// FileStore keeps preferences in a single JSON file.
type FileStore struct {
	path   string
	logger *logging.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore builds a store at the given path.
func NewFileStore(path string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) LoadPatient(ctx context.Context) (PatientDetails, error) {
	doc := s.read()
	return doc.PatientDetails, nil
}

func (s *FileStore) SavePatient(ctx context.Context, p PatientDetails) error {
	doc := s.read()
	doc.PatientDetails = p
	return s.write(doc)
}

func (s *FileStore) LoadDebug(ctx context.Context) (DebugSettings, error) {
	doc := s.read()
	return doc.Debug, nil
}

func (s *FileStore) SaveDebug(ctx context.Context, d DebugSettings) error {
	doc := s.read()
	doc.Debug = d
	return s.write(doc)
}

// read is deliberately forgiving: a missing or garbled file yields defaults.
func (s *FileStore) read() fileDocument {
	var doc fileDocument
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("preference file unreadable, using defaults", "path", s.path, "error", err)
		}
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("preference file corrupted, using defaults", "path", s.path, "error", err)
		return fileDocument{}
	}
	return doc
}

func (s *FileStore) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs: marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("prefs: create dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("prefs: write %s: %w", s.path, err)
	}
	return nil
}
