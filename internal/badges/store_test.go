package badges

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndServe(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path, err := store.Save("../../etc/Ring.PNG", strings.NewReader("precious"))
	if err != nil {
		t.Fatalf("Failed to save badge: %v", err)
	}

	if !strings.HasPrefix(path, "/uploads/badges/") {
		t.Errorf("Unexpected public path %s", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected extension to be kept, got %s", path)
	}

	onDisk := filepath.Join(dir, "badges", filepath.Base(path))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("Badge not written to %s: %v", onDisk, err)
	}
	if string(data) != "precious" {
		t.Errorf("Unexpected contents %q", data)
	}

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	store.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if string(body) != "precious" {
		t.Errorf("Unexpected served body %q", body)
	}
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Save("badge.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Failed to save badge: %v", err)
	}
	second, err := store.Save("badge.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Failed to save badge: %v", err)
	}
	if first == second {
		t.Errorf("Expected distinct paths, both were %s", first)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path, err := store.Save("star.png", strings.NewReader("shine"))
	if err != nil {
		t.Fatalf("Failed to save badge: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Failed to remove badge: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "badges", filepath.Base(path))); !os.IsNotExist(err) {
		t.Errorf("Expected badge file to be gone, stat returned %v", err)
	}

	for _, bad := range []string{"", "/uploads/other/x.png", "/uploads/badges/../../secret", "/uploads/badges/"} {
		if err := store.Remove(bad); err == nil {
			t.Errorf("Expected Remove(%q) to fail", bad)
		}
	}
}
