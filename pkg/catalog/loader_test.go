package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/pipecanvas/internal/testutils"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kindsYAML = `
kinds:
  - kind: summarize
    title: Summarize
    description: Shorten text
    fields:
      - name: sentences
        label: Sentences
        type: number
        default: 3
      - name: style
        label: Style
        type: select
        rows: "2"
        options:
          - {value: bullet, label: Bullets}
          - {value: prose, label: Prose}
    inputs:
      - {id: text, label: Text}
    outputs:
      - {id: summary, label: Summary, side: right, anchor: 40%}
    style:
      background: "#fff7ed"
      min_height: 120
  - title: missing kind is skipped
`

func TestDecodeYAML(t *testing.T) {
	schemas, err := DecodeYAML([]byte(kindsYAML))
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, "summarize", s.Kind)
	assert.Equal(t, "Shorten text", s.Description)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, domain.FieldNumber, s.Fields[0].Type)
	assert.Equal(t, 3, s.Fields[0].DefaultValue)
	assert.Equal(t, 2, s.Fields[1].Rows)
	assert.Equal(t, []domain.Option{{Value: "bullet", Label: "Bullets"}, {Value: "prose", Label: "Prose"}}, s.Fields[1].Options)
	assert.Equal(t, "40%", s.Outputs[0].Anchor)
	assert.Equal(t, "#fff7ed", s.Style.BackgroundColor)
	assert.Equal(t, 120, s.Style.MinHeight)
}

func TestDecodeYAML_Invalid(t *testing.T) {
	_, err := DecodeYAML([]byte("kinds: [unterminated"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(kindsYAML), 0o644))

	c := Default()
	n, err := LoadYAML(c, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "summarize", c.Kinds()[len(c.Kinds())-1])

	n, err = LoadYAML(c, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadDir(t *testing.T) {
	doc := `---
title: Translate
fields:
  - name: language
    label: Language
    type: text
    default: en
inputs:
  - id: text
    label: Text
outputs:
  - id: translated
    label: Translated
---
Translate text into another language
`
	dir := testutils.WriteFiles(t, map[string]string{"translate.md": doc})

	c := New()
	n, err := LoadDir(context.Background(), c, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := c.Get("translate")
	require.NoError(t, err)
	assert.Equal(t, "Translate", s.Title)
	assert.Equal(t, "Translate text into another language", s.Description)
	require.Len(t, s.Fields, 1)
	assert.Equal(t, "language", s.Fields[0].Name)
}

func TestLoad_ShippedExamples(t *testing.T) {
	c := Default()
	n, err := LoadYAML(c, filepath.Join("..", "..", "examples", "custom-kinds", "kinds.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = LoadDir(context.Background(), c, filepath.Join("..", "..", "examples", "custom-kinds", "kinds"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	kinds := c.Kinds()
	assert.Equal(t, []string{"summarize", "translate"}, kinds[len(kinds)-2:])

	s, err := c.Get("summarize")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Fields[0].DefaultValue)
	assert.Len(t, s.Fields[1].Options, 2)
}
