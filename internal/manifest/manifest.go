package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// PageState represents the state of a single source page at its last build
type PageState struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

// Manifest records what the last build produced
type Manifest struct {
	Pages        map[string]*PageState `json:"pages"`
	TemplateHash string                `json:"template_hash"`
}

// New creates a new empty manifest
func New() *Manifest {
	return &Manifest{
		Pages: make(map[string]*PageState),
	}
}

// Load reads the manifest file; a missing file yields an empty manifest
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Pages == nil {
		m.Pages = make(map[string]*PageState)
	}

	return &m, nil
}

// Save writes the manifest file
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a page source has changed since the last build.
// Uses hybrid mtime + hash approach.
func (m *Manifest) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	page, exists := m.Pages[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if info.ModTime().Unix() == page.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != page.Hash, nil
}

// Update records the current state of a page source and its output
func (m *Manifest) Update(path, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	m.Pages[path] = &PageState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}

	return nil
}

// Forget drops a page from the manifest
func (m *Manifest) Forget(path string) {
	delete(m.Pages, path)
}

// Sources returns all tracked page sources, sorted
func (m *Manifest) Sources() []string {
	sources := make([]string, 0, len(m.Pages))
	for path := range m.Pages {
		sources = append(sources, path)
	}
	sort.Strings(sources)
	return sources
}
