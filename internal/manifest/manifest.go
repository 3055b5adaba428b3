// Package manifest orders discovered asset paths and records the ordered
// manifest of a run.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/assetbuilder/internal/assets"
)

// FileName is the manifest file written into the temp directory.
const FileName = "manifest.json"

// Entry is a single ordered asset.
type Entry struct {
	Path  string      `json:"path"`
	Kind  assets.Kind `json:"kind"`
	Depth int         `json:"depth"`
}

// Manifest is the record of the ordered asset set for one run.
type Manifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Roots     []string  `json:"roots"`
	Files     []Entry   `json:"files"`
	Tasks     []string  `json:"tasks,omitempty"`
	Hash      string    `json:"hash"`
}

// New builds a manifest from already ordered files.
func New(name string, roots, files []string) *Manifest {
	m := &Manifest{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Name:      name,
		Roots:     append([]string(nil), roots...),
		Files:     make([]Entry, 0, len(files)),
	}
	for _, f := range files {
		m.Files = append(m.Files, Entry{Path: f, Kind: assets.Classify(f), Depth: Depth(f)})
	}
	m.Hash = m.computeHash()
	return m
}

// Paths returns the ordered file paths.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.Files))
	for i, e := range m.Files {
		out[i] = e.Path
	}
	return out
}

// computeHash is order-sensitive: reordering the same files changes the hash.
func (m *Manifest) computeHash() string {
	h := sha256.New()
	for _, e := range m.Files {
		_, _ = h.Write([]byte(e.Path))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ToJSON serializes the manifest to JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest as FileName inside dir and returns the full path.
func (m *Manifest) Save(dir string) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}
