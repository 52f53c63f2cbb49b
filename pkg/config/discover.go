package config

import (
	"os"
	"path/filepath"
	"strings"
)

// TreeFileName is the file name discovery looks for.
const TreeFileName = "sitenav.json"

// DiscoverSites scans the configured directories for sitenav.json files and
// returns them as sites after the registered ones. A discovered file whose
// path matches a registered site is not repeated.
func DiscoverSites(cfg Config) []Site {
	seen := make(map[string]bool)
	var result []Site

	for _, s := range cfg.Sites {
		if s.TreeFile != "" {
			seen[expandHome(s.TreeFile)] = true
		}
		result = append(result, s)
	}

	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, f := range scanForTreeFiles(scanPath, maxDepth) {
			if seen[f] {
				continue
			}
			seen[f] = true
			result = append(result, Site{
				Name:     filepath.Base(filepath.Dir(f)),
				TreeFile: f,
			})
		}
	}
	return result
}

// scanForTreeFiles walks root up to maxDepth levels deep and returns every
// sitenav.json it finds. Hidden directories are skipped.
func scanForTreeFiles(root string, maxDepth int) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if d.Name() == TreeFileName {
				results = append(results, path)
			}
			return nil
		}

		depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if depth > maxDepth {
			return filepath.SkipDir
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return nil
	})

	return results
}

// DetectTreeFile walks up from the working directory looking for
// sitenav.json, stopping at the home directory.
func DetectTreeFile() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findTreeFile(dir)
}

func findTreeFile(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, TreeFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
