package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the layout of a kinds file:
//
//	kinds:
//	  - kind: summarize
//	    title: Summarize
//	    fields:
//	      - {name: length, label: Length, type: number, default: 3}
type File struct {
	Kinds []domain.NodeSchema `mapstructure:"kinds"`
}

// DecodeYAML parses hand-authored kind definitions. Decoding is weakly typed
// (e.g. rows: "3" is accepted) and entries without a kind are skipped.
func DecodeYAML(data []byte) ([]domain.NodeSchema, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse kinds file: %w", err)
	}

	var file File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &file,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode kinds: %w", err)
	}

	out := make([]domain.NodeSchema, 0, len(file.Kinds))
	for _, s := range file.Kinds {
		if s.Kind == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadYAML reads a kinds file and registers every kind in c.
// A missing file registers nothing.
func LoadYAML(c *Catalog, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read kinds file: %w", err)
	}

	schemas, err := DecodeYAML(data)
	if err != nil {
		return 0, err
	}
	for _, s := range schemas {
		c.Register(s)
	}
	return len(schemas), nil
}

// LoadDir registers one kind per document of a Loam repository (Markdown with
// frontmatter, YAML or JSON). The frontmatter is the schema; a Markdown body
// becomes the description when the frontmatter has none, and the kind
// defaults to the document name.
func LoadDir(ctx context.Context, c *Catalog, dir string) (int, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize loam: %w", err)
	}

	docs, err := loam.NewTypedRepository[domain.NodeSchema](repo).List(ctx)
	if err != nil {
		return 0, fmt.Errorf("loam list failed: %w", err)
	}

	n := 0
	for _, doc := range docs {
		s := doc.Data
		if s.Kind == "" {
			s.Kind = trimExtension(doc.ID)
		}
		if s.Description == "" {
			s.Description = strings.TrimSpace(doc.Content)
		}
		c.Register(s)
		n++
	}
	return n, nil
}

func trimExtension(id string) string {
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
