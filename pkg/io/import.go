package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadJSON decodes an [Export] written by [WriteJSON].
//
// The input must be a JSON object with "individuals" and "families" arrays;
// "header" may be null. ReadJSON returns an error if the JSON is malformed.
// It does not close r.
func ReadJSON(r io.Reader) (Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Export{}, fmt.Errorf("decode: %w", err)
	}
	return e, nil
}

// ImportJSON reads a JSON file at path and returns the decoded [Export].
//
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return Export{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	e, err := ReadJSON(f)
	if err != nil {
		return Export{}, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// ReadYAML decodes an [Export] written by [WriteYAML].
func ReadYAML(r io.Reader) (Export, error) {
	var tree any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		return Export{}, fmt.Errorf("decode: %w", err)
	}
	// Route through JSON so the json tags and decoders of the record types
	// apply unchanged.
	data, err := json.Marshal(tree)
	if err != nil {
		return Export{}, fmt.Errorf("decode: %w", err)
	}
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return Export{}, fmt.Errorf("decode: %w", err)
	}
	return e, nil
}
