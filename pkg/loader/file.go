package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/sitenav/pkg/model"
)

// treeFile is the optional object form of a tree file. A bare JSON array of
// nodes is accepted as well.
type treeFile struct {
	Nodes     []model.Node     `json:"nodes"`
	Resources []model.Resource `json:"resources,omitempty"`
}

// LoadTreeFile reads a node list from a JSON file.
func LoadTreeFile(path string) ([]model.Node, error) {
	tf, err := readTreeFile(path)
	if err != nil {
		return nil, err
	}
	return tf.Nodes, nil
}

func readTreeFile(path string) (*treeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return &treeFile{}, nil
	}

	var tf treeFile
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &tf.Nodes); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return &tf, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &tf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &tf, nil
}

// SaveTreeFile writes nodes as an indented JSON array.
func SaveTreeFile(path string, nodes []model.Node) error {
	if nodes == nil {
		nodes = []model.Node{}
	}
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// FileSource serves the tree from a local JSON file. Pages come from the
// file's "resources" section when present, otherwise from Fallback.
type FileSource struct {
	Path     string
	Fallback Source
}

// FetchTree re-reads the file on every call so edits show up on refresh.
func (f *FileSource) FetchTree(ctx context.Context) ([]model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadTreeFile(f.Path)
}

// FetchResource looks the page up in the file, then in Fallback.
func (f *FileSource) FetchResource(ctx context.Context, id string) (*model.Resource, error) {
	tf, err := readTreeFile(f.Path)
	if err != nil {
		return nil, err
	}
	for i := range tf.Resources {
		if tf.Resources[i].ID == id {
			res := tf.Resources[i]
			return &res, nil
		}
	}
	if f.Fallback != nil {
		return f.Fallback.FetchResource(ctx, id)
	}
	return nil, fmt.Errorf("%w: resource %s", ErrNotFound, id)
}

// ValidateNodes reports per-node problems without rejecting the list. The
// renderer copes with all of them; this is for warnings only.
func ValidateNodes(nodes []model.Node) []string {
	var warnings []string
	seen := make(map[string]bool, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if err := n.Validate(); err != nil {
			warnings = append(warnings, err.Error())
		}
		if n.ID != "" && seen[n.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate node id %s", n.ID))
		}
		seen[n.ID] = true
	}
	return warnings
}
