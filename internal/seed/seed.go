// Package seed loads corpus items from TOML so a fresh deployment has
// something to compare ideas against.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
)

type CorpusWriter interface {
	AddCorpusItem(ctx context.Context, item model.CorpusItem) (model.CorpusItem, error)
}

type entry struct {
	ID        string    `toml:"id"`
	Type      string    `toml:"type"`
	Title     string    `toml:"title"`
	Summary   string    `toml:"summary"`
	Author    string    `toml:"author"`
	Category  string    `toml:"category"`
	CreatedAt time.Time `toml:"created_at"`
}

type file struct {
	Items []entry `toml:"items"`
}

func Parse(data []byte) ([]model.CorpusItem, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed TOML: %w", err)
	}

	items := make([]model.CorpusItem, 0, len(f.Items))
	for _, e := range f.Items {
		items = append(items, model.CorpusItem{
			ID:        e.ID,
			Kind:      model.CorpusKind(e.Type),
			Title:     e.Title,
			Summary:   e.Summary,
			Author:    e.Author,
			Category:  e.Category,
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}

func LoadFile(path string) ([]model.CorpusItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file '%s': %w", path, err)
	}
	return Parse(data)
}

// Apply writes items in order and stops at the first failure, returning how
// many were saved.
func Apply(ctx context.Context, w CorpusWriter, items []model.CorpusItem) (int, error) {
	for i, item := range items {
		if _, err := w.AddCorpusItem(ctx, item); err != nil {
			return i, fmt.Errorf("item %d (%q): %w", i, item.Title, err)
		}
	}
	return len(items), nil
}
