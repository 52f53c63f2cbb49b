package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTreeFile(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, TreeFileName)
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanForTreeFiles(t *testing.T) {
	root := t.TempDir()
	a := writeTreeFile(t, filepath.Join(root, "blog"))
	b := writeTreeFile(t, filepath.Join(root, "sub", "notes"))
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	results := scanForTreeFiles(root, 3)
	if len(results) != 2 {
		t.Fatalf("expected 2 tree files, got %d: %v", len(results), results)
	}
	found := map[string]bool{}
	for _, r := range results {
		found[r] = true
	}
	if !found[a] || !found[b] {
		t.Errorf("expected %s and %s, got %v", a, b, results)
	}
}

func TestScanForTreeFiles_DepthLimit(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "a", "b", "c", "d", "deep"))
	shallow := writeTreeFile(t, filepath.Join(root, "shallow"))

	results := scanForTreeFiles(root, 2)
	if len(results) != 1 || results[0] != shallow {
		t.Errorf("expected only %s, got %v", shallow, results)
	}
}

func TestScanForTreeFiles_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, ".cache", "site"))

	if results := scanForTreeFiles(root, 3); len(results) != 0 {
		t.Errorf("expected hidden dirs skipped, got %v", results)
	}
}

func TestDiscoverSites_MergesRegistered(t *testing.T) {
	root := t.TempDir()
	registered := writeTreeFile(t, filepath.Join(root, "blog"))
	writeTreeFile(t, filepath.Join(root, "notes"))

	cfg := DefaultConfig()
	cfg.Sites = []Site{{Name: "My Blog", TreeFile: registered}}
	cfg.Discovery.ScanPaths = []string{root}

	sites := DiscoverSites(cfg)
	if len(sites) != 2 {
		t.Fatalf("expected 2 sites, got %d: %+v", len(sites), sites)
	}
	if sites[0].Name != "My Blog" {
		t.Errorf("expected registered site first, got %s", sites[0].Name)
	}
	if sites[1].Name != "notes" {
		t.Errorf("expected discovered site named after its directory, got %s", sites[1].Name)
	}
}

func TestFindTreeFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeTreeFile(t, root)
	nested := filepath.Join(root, "x", "y")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := findTreeFile(nested)
	if !ok || got != want {
		t.Errorf("expected %s, got %s (%v)", want, got, ok)
	}
}
