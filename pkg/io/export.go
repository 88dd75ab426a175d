package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/optional"
)

// Export is the record-level view of a parsed GEDCOM file.
type Export struct {
	Header      optional.Value[record.Header] `json:"header"`
	Individuals []record.Individual           `json:"individuals"`
	Families    []record.Family               `json:"families"`
	Diagnostics []diag.Diagnostic             `json:"diagnostics,omitempty"`
}

// FromStore reads the header, individuals and families of a parsed file.
func FromStore(store *gedcom.Store, diags []diag.Diagnostic) Export {
	return Export{
		Header:      record.HeaderOf(store),
		Individuals: record.Individuals(store),
		Families:    record.Families(store),
		Diagnostics: diags,
	}
}

// Version returns HEAD.GEDC.VERS, if recorded.
func (e Export) Version() optional.Value[string] {
	return optional.FlatMap(e.Header, func(h record.Header) optional.Value[string] {
		return optional.Map(h.GEDC, func(g record.GEDC) string { return g.Version })
	})
}

// WriteJSON encodes e as indented JSON and writes it to w.
// Absent values are written as null, so [ReadJSON] restores them exactly.
func WriteJSON(e Export, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes e to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(e Export, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(e, f)
}

// WriteYAML encodes e as YAML with the same keys, in the same order, as
// [WriteJSON].
func WriteYAML(e Export, w io.Writer) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	// JSON is valid YAML; parsing it into a node tree keeps key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportYAML writes e to a YAML file at path.
func ExportYAML(e Export, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteYAML(e, f)
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
