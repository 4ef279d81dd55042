// Package i18n serves the localized interface strings for English and
// Vietnamese from an embedded YAML table.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a requested language has no table.
const DefaultLanguage = "en"

//go:embed translations.yaml
var embedded []byte

// Catalog maps a language code to its nested string tree.
type Catalog struct {
	trees map[string]map[string]any
}

// Load parses the embedded translation tables.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a catalog from YAML shaped as language -> section -> key -> text.
func Parse(data []byte) (*Catalog, error) {
	var trees map[string]map[string]any
	if err := yaml.Unmarshal(data, &trees); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	if _, ok := trees[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("translations are missing the %q table", DefaultLanguage)
	}
	return &Catalog{trees: trees}, nil
}

// Languages lists the language codes present in the catalog.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.trees))
	for lang := range c.trees {
		out = append(out, lang)
	}
	return out
}

// Tree returns the whole string tree for lang, or the English one if lang is unknown.
func (c *Catalog) Tree(lang string) map[string]any {
	if tree, ok := c.trees[lang]; ok {
		return tree
	}
	return c.trees[DefaultLanguage]
}

// T resolves a dotted key such as "pdfToLatex.errorSelectFile". Unknown
// keys, and keys that name a section instead of a string, return the key.
func (c *Catalog) T(lang, key string) string {
	var node any = c.Tree(lang)
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node, ok = m[part]
		if !ok {
			return key
		}
	}
	if s, ok := node.(string); ok {
		return s
	}
	return key
}
