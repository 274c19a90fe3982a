package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/supra/core/menu"
)

type fileProvider struct {
	path string
}

// NewFileProvider creates a Provider backed by the filesystem. path may name
// a single document or a directory walked recursively in lexical order.
// Documents are JSON (.json) or YAML (.yaml, .yml) and hold either one
// restaurant or a list of restaurants. Hidden files and directories are
// skipped.
func NewFileProvider(path string) Provider {
	return &fileProvider{path: path}
}

func (p *fileProvider) Load(ctx context.Context) ([]menu.Restaurant, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	if !info.IsDir() {
		return readDocument(p.path)
	}

	var restaurants []menu.Restaurant
	err = filepath.WalkDir(p.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != p.path && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !supported(path) {
			return nil
		}

		rs, err := readDocument(path)
		if err != nil {
			return err
		}
		restaurants = append(restaurants, rs...)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLoadFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	return restaurants, nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func readDocument(path string) ([]menu.Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}

	var rs []menu.Restaurant
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		rs, err = decodeJSON(data)
	} else {
		rs, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	return rs, nil
}

func decodeJSON(data []byte) ([]menu.Restaurant, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var rs []menu.Restaurant
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, err
		}
		return rs, nil
	}

	var r menu.Restaurant
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return []menu.Restaurant{r}, nil
}

func decodeYAML(data []byte) ([]menu.Restaurant, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	doc := node.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var rs []menu.Restaurant
		if err := doc.Decode(&rs); err != nil {
			return nil, err
		}
		return rs, nil
	}

	var r menu.Restaurant
	if err := doc.Decode(&r); err != nil {
		return nil, err
	}
	return []menu.Restaurant{r}, nil
}
