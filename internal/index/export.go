// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// exportDocument is the serialized snapshot shape shared by the YAML and
// JSON exporters.
type exportDocument struct {
	ExportedAt time.Time             `json:"exported_at" yaml:"exported_at"`
	ItemCount  int                   `json:"item_count" yaml:"item_count"`
	Items      []types.KnowledgeItem `json:"items" yaml:"items"`
}

func (e *Engine) exportSnapshot(ctx context.Context) (exportDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.items.All(ctx)
	if err != nil {
		return exportDocument{}, fmt.Errorf("listing items: %w", err)
	}
	return exportDocument{
		ExportedAt: e.now(),
		ItemCount:  len(items),
		Items:      items,
	}, nil
}

// ExportYAML writes every stored item to w as a YAML document.
func (e *Engine) ExportYAML(ctx context.Context, w io.Writer) error {
	if err := e.ready(); err != nil {
		return err
	}
	doc, err := e.exportSnapshot(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	fmt.Fprintf(e.log, "exported %d items as yaml\n", doc.ItemCount)
	return nil
}

// ExportJSON writes every stored item to w as indented JSON.
func (e *Engine) ExportJSON(ctx context.Context, w io.Writer) error {
	if err := e.ready(); err != nil {
		return err
	}
	doc, err := e.exportSnapshot(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	fmt.Fprintf(e.log, "exported %d items as json\n", doc.ItemCount)
	return nil
}
