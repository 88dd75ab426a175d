// Package graph provides the serialization format for relationship graphs.
//
// This package defines the wire format for lineage's graph data, used for
// JSON files, API responses, caching, and MongoDB snapshots.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory graph
// and external formats:
//
//   - [Graph]: Serialization type (this package, json and bson tags)
//   - pkg/genealogy.Graph: Internal relationship graph
//
// Use [FromGenealogy]/[ToGenealogy] to convert between them, and [Ancestry]
// to cut out the ancestors of one individual.
//
// # Format
//
// Individuals are nodes; relations are typed edges:
//
//	{
//	  "nodes": [{"id": "I1", "label": "John Smith"}, {"id": "I3"}],
//	  "edges": [{"from": "I1", "to": "I3", "kind": "father", "family": "F1"}]
//	}
//
// Parent edges ("father", "mother") point from parent to child. A "spouse"
// edge is stored once per couple and family.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("family.json")   // File → genealogy.Graph
//	graph.WriteGraphFile(g, "output.json")       // genealogy.Graph → File
//	data, _ := graph.MarshalGraph(g)             // genealogy.Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
