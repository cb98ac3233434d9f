package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yndnr/linkmesh-go/pkg/crypto/adaptive"
)

// Kind identifies which table a snapshot file holds. The kind maps to
// the filename extension, so both tables can version independently in
// the same directory.
type Kind string

const (
	// KindRoutes is the routing table (code -> route).
	KindRoutes Kind = "routes"

	// KindCodes is the code table (id -> code).
	KindCodes Kind = "codes"
)

// Filename extensions per kind.
const (
	routesExtension = "json"
	codesExtension  = "code"
)

func (k Kind) extension() string {
	switch k {
	case KindCodes:
		return codesExtension
	default:
		return routesExtension
	}
}

var (
	// ErrUnknownKind is returned for a kind the store does not manage.
	ErrUnknownKind = errors.New("snapshot: unknown table kind")
)

// Store reads and writes versioned table snapshots in one directory.
type Store struct {
	dir    string
	cipher adaptive.Cipher
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCipher seals snapshot contents with the given cipher.
func WithCipher(c adaptive.Cipher) Option {
	return func(s *Store) {
		s.cipher = c
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source. Tests use this to produce
// deterministic filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a snapshot store rooted at dir, creating the
// directory if needed.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}

	s := &Store{
		dir:    dir,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Write serializes table to a new snapshot of the given kind.
//
// The data is written to a temporary file in the target directory,
// flushed to stable storage, then renamed to its final timestamped
// name. A crash mid-write can leave a stray temporary file but never a
// partially written snapshot under a final name.
func (s *Store) Write(table any, kind Kind) (string, error) {
	if kind != KindRoutes && kind != KindCodes {
		return "", ErrUnknownKind
	}

	data, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("snapshot: marshal %s: %w", kind, err)
	}
	if s.cipher != nil {
		data, err = s.cipher.Encrypt(data, []byte(kind))
		if err != nil {
			return "", fmt.Errorf("snapshot: seal %s: %w", kind, err)
		}
	}

	file, err := os.CreateTemp(s.dir, ".snap-*.tmp")
	if err != nil {
		return "", fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tempPath := file.Name()
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("snapshot: write: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return "", fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("snapshot: close: %w", err)
	}

	name := s.now().Format(time.RFC3339Nano) + "." + kind.extension()
	finalPath := filepath.Join(s.dir, name)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("snapshot: rename: %w", err)
	}

	s.logger.Debug("snapshot written",
		"kind", string(kind),
		"path", finalPath,
		"bytes", len(data),
	)
	return finalPath, nil
}

// LoadLatest decodes the most recent snapshot of the given kind into
// target and reports its timestamp.
//
// The directory is scanned once; entries whose extension does not match
// the kind, or whose name stem does not parse as RFC 3339, are skipped.
// The greatest timestamp wins regardless of filesystem iteration order.
// Returns ok=false when no matching snapshot exists. A decode failure
// of the selected file is a hard error; there is no fallback to an
// older snapshot.
func (s *Store) LoadLatest(kind Kind, target any) (time.Time, bool, error) {
	if kind != KindRoutes && kind != KindCodes {
		return time.Time{}, false, ErrUnknownKind
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("snapshot: scan dir: %w", err)
	}

	suffix := "." + kind.extension()
	var (
		latest     time.Time
		latestPath string
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		stem := strings.TrimSuffix(name, suffix)
		ts, err := time.Parse(time.RFC3339Nano, stem)
		if err != nil {
			continue
		}
		if latestPath == "" || ts.After(latest) {
			latest = ts
			latestPath = filepath.Join(s.dir, name)
		}
	}
	if latestPath == "" {
		return time.Time{}, false, nil
	}

	data, err := os.ReadFile(latestPath)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("snapshot: read %s: %w", latestPath, err)
	}
	if s.cipher != nil {
		data, err = s.cipher.Decrypt(data, []byte(kind))
		if err != nil {
			return time.Time{}, false, fmt.Errorf("snapshot: unseal %s: %w", latestPath, err)
		}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return time.Time{}, false, fmt.Errorf("snapshot: decode %s: %w", latestPath, err)
	}
	return latest, true, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}
