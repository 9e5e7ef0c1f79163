package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	m := New()

	if m.Pages == nil {
		t.Error("Pages map should be initialized")
	}
	if len(m.Pages) != 0 {
		t.Error("Pages map should be empty")
	}
	if m.TemplateHash != "" {
		t.Error("TemplateHash should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "nested", "manifest.json")

	m := New()
	m.TemplateHash = "sha256:template"
	m.Pages["content/index.md"] = &PageState{
		MTime:  123456789,
		Hash:   "sha256:abc123",
		Output: "public/index.html",
	}

	if err := m.Save(manifestPath); err != nil {
		t.Fatalf("Failed to save manifest: %v", err)
	}

	loaded, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}

	if loaded.TemplateHash != "sha256:template" {
		t.Errorf("TemplateHash mismatch: %q", loaded.TemplateHash)
	}

	page := loaded.Pages["content/index.md"]
	if page == nil {
		t.Fatal("Page state not found")
	}
	if page.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d", page.MTime)
	}
	if page.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %q", page.Hash)
	}
	if page.Output != "public/index.html" {
		t.Errorf("Output mismatch: got %q", page.Output)
	}
}

func TestLoadNonExistent(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if m.Pages == nil || len(m.Pages) != 0 {
		t.Error("Expected empty manifest")
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for corrupt manifest")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.md")
	b := filepath.Join(tmpDir, "b.md")

	if err := os.WriteFile(a, []byte("# Same"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(b, []byte("# Same"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	hashA, err := ComputeHash(a)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hashB, err := ComputeHash(b)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if hashA != hashB {
		t.Errorf("Identical content should hash equally: %s vs %s", hashA, hashB)
	}
	if !strings.HasPrefix(hashA, "sha256:") {
		t.Errorf("Hash should carry its algorithm prefix: %s", hashA)
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "page.md")

	if err := os.WriteFile(path, []byte("# Initial"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	m := New()

	changed, err := m.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Untracked page should be reported as changed")
	}

	if err := m.Update(path, "public/page.html"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = m.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Page should be unchanged right after Update")
	}

	// Touch without changing content: mtime differs, hash does not
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	changed, err = m.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Touching a page without editing it should not count as a change")
	}

	if err := os.WriteFile(path, []byte("# Edited"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	evenLater := later.Add(2 * time.Second)
	if err := os.Chtimes(path, evenLater, evenLater); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	changed, err = m.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Edited page should be reported as changed")
	}
}

func TestHasChangedMissingFile(t *testing.T) {
	m := New()
	if _, err := m.HasChanged(filepath.Join(t.TempDir(), "gone.md")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestForgetAndSources(t *testing.T) {
	m := New()
	m.Pages["b.md"] = &PageState{}
	m.Pages["a.md"] = &PageState{}
	m.Pages["c.md"] = &PageState{}

	m.Forget("b.md")

	if got := m.Sources(); !reflect.DeepEqual(got, []string{"a.md", "c.md"}) {
		t.Errorf("Sources() = %v", got)
	}
}
