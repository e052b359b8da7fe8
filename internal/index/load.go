// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// LoadSummary reports the outcome of a bulk load.
type LoadSummary struct {
	Files   int `json:"files" yaml:"files"`
	Added   int `json:"added" yaml:"added"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// itemFile is the YAML shape accepted by LoadItems: either a list under
// an items key or a single item at the top level.
type itemFile struct {
	Items []types.KnowledgeItem `yaml:"items"`
}

// LoadItems reads every .yaml and .yml file in dir and adds the items it
// finds through the normal add pipeline, so verification and trust
// enforcement apply. Rejected items are logged and counted as skipped; a
// bad file stops the load.
func (e *Engine) LoadItems(ctx context.Context, dir string) (LoadSummary, error) {
	if err := e.ready(); err != nil {
		return LoadSummary{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var summary LoadSummary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		items, err := readItemFile(path)
		if err != nil {
			return summary, err
		}
		summary.Files++

		for _, item := range items {
			if _, err := e.AddItem(ctx, item); err != nil {
				fmt.Fprintf(e.log, "skipped item from %s: %v\n", entry.Name(), err)
				summary.Skipped++
				continue
			}
			summary.Added++
		}
	}

	fmt.Fprintf(e.log, "loaded %d items from %d files (%d skipped)\n",
		summary.Added, summary.Files, summary.Skipped)
	return summary, nil
}

func readItemFile(path string) ([]types.KnowledgeItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file itemFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Items) > 0 {
		return file.Items, nil
	}

	var single types.KnowledgeItem
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []types.KnowledgeItem{single}, nil
}
