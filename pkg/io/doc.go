// Package io provides JSON and YAML import and export of GEDCOM records.
//
// # Overview
//
// Where package graph serializes the derived relationship graph, this
// package serializes what the file itself says: the header, every INDI and
// FAM record read through package record, and the diagnostics collected
// while parsing. The format is designed for:
//
//   - Inspecting a GEDCOM file with ordinary JSON or YAML tools
//   - Caching parsed records for faster re-processing
//   - Round-trip preservation: export and re-import identically
//
// # Format
//
//	{
//	  "header": {"gedc": {"version": "5.5.1", "form": "LINEAGE-LINKED"}, ...},
//	  "individuals": [{"id": "I1", "sex": "M", "names": [...], ...}],
//	  "families": [{"id": "F1", "husband_id": "I1", "wife_id": null, ...}],
//	  "diagnostics": [{"kind": "duplicate-id", "severity": "warning", ...}]
//	}
//
// Absent optional values are written as null rather than omitted, so a
// missing PLAC stays distinguishable from an empty one.
//
// # Import
//
// Use [ImportJSON] to read from a file path, or [ReadJSON] / [ReadYAML] to
// read from any io.Reader.
//
// # Export
//
// Use [ExportJSON] / [ExportYAML] to write to a file, or [WriteJSON] /
// [WriteYAML] to write to any io.Writer. YAML output uses the same keys in
// the same order as JSON.
//
// # Concurrency
//
// All functions are safe to call concurrently. An [Export] is a plain value
// and shares no state with the document it was read from.
package io
