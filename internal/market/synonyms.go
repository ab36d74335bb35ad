package market

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymTable maps a lowercase crop name to the commodity name variants
// it is traded under. Ontology crop names and mandi commodity names often
// differ ("Paddy" vs "Rice"), so price lookups try every variant.
//
// The table is data, not code: DefaultSynonyms covers the common cases
// and LoadSynonyms merges a YAML file over it, so new aliases never
// require an engine change.
type SynonymTable map[string][]string

// DefaultSynonyms returns the built-in crop → commodity alias table.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		"paddy":     {"paddy", "paddy rice", "rice", "rice paddy"},
		"groundnut": {"groundnut", "ground nut", "peanut", "peanuts"},
		"maize":     {"maize", "corn", "sweet corn"},
		"cotton":    {"cotton", "cotton seed"},
	}
}

// LoadSynonyms reads a YAML alias file and merges it over the built-in
// table. File entries replace built-in entries for the same crop name.
//
// File format:
//
//	paddy:
//	  - rice
//	  - paddy rice
//	jowar:
//	  - sorghum
func LoadSynonyms(path string) (SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonym table: %w", err)
	}

	var loaded map[string][]string
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}

	table := DefaultSynonyms()
	for name, variants := range loaded {
		table[strings.ToLower(name)] = variants
	}
	return table, nil
}

// Expand returns the commodity name variants to try for a crop name, the
// original name always first. Without a table entry, a single-token name
// also tries the generic " seed" and " grain" suffixes.
func (t SynonymTable) Expand(cropName string) []string {
	name := strings.ToLower(strings.TrimSpace(cropName))
	variants := []string{cropName}

	if mapped, ok := t[name]; ok {
		for _, v := range mapped {
			variants = appendUniqueFold(variants, v)
		}
		return variants
	}

	if !strings.Contains(name, " ") {
		variants = append(variants, name+" seed", name+" grain")
	}
	return variants
}

func appendUniqueFold(variants []string, v string) []string {
	for _, existing := range variants {
		if strings.EqualFold(existing, v) {
			return variants
		}
	}
	return append(variants, v)
}
