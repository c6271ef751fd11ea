package classpath

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ManifestVersion is the current version of the manifest format.
const ManifestVersion = 1

// manifestFile is the name of the staging manifest inside the work directory.
const manifestFile = "staging.json"

// Manifest records every staged artifact with its content hash, so a later
// run (or an operator) can tell what the staging directories should contain.
type Manifest struct {
	Version   int               `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	// Files maps staged paths (relative to the work directory, forward
	// slashes) to xxHash64 hex digests.
	Files map[string]string `json:"files"`
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Version: ManifestVersion, Files: make(map[string]string)}
}

// ManifestStore persists the staging manifest as JSON in the work directory.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a store for the given work directory.
func NewManifestStore(workDir string) *ManifestStore {
	return &ManifestStore{path: filepath.Join(workDir, manifestFile)}
}

// Load reads the manifest. A missing file yields an empty manifest.
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staging manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse staging manifest: %w", err)
	}
	if m.Version > ManifestVersion {
		return nil, fmt.Errorf("staging manifest version %d is newer than supported version %d", m.Version, ManifestVersion)
	}
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	return &m, nil
}

// Save writes the manifest atomically (temp file plus rename).
func (s *ManifestStore) Save(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("cannot save nil manifest")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	m.UpdatedAt = time.Now()
	m.Version = ManifestVersion

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal staging manifest: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp staging manifest: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename staging manifest: %w", err)
	}
	return nil
}

// copyFile copies src to dst and returns the xxHash64 hex digest of the
// copied bytes. Copy failures are fatal to materialization and not retried.
func copyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}

	h := xxhash.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to copy artifact %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
