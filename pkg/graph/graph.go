package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lineage/pkg/genealogy"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a relationship graph to JSON bytes.
// Nodes keep first-appearance order for deterministic output.
func MarshalGraph(g *genealogy.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(FromGenealogy(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a relationship graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *genealogy.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(FromGenealogy(g), f)
}

// WriteGraph writes a relationship graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *genealogy.Graph, w io.Writer) error {
	return writeGraphTo(FromGenealogy(g), w)
}

// Encode writes an already converted Graph, such as an [Ancestry] subset.
func Encode(gj Graph, w io.Writer) error {
	return writeGraphTo(gj, w)
}

// ReadGraphFile reads a JSON file and returns the decoded relationship graph.
func ReadGraphFile(path string) (*genealogy.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (*genealogy.Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(gj Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gj); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*genealogy.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGenealogy(data)
}
