// Package gedcom reconstructs the record hierarchy of a GEDCOM file.
//
// # Overview
//
// A GEDCOM file is a flat sequence of level-numbered lines:
//
//	0 @I1@ INDI
//	1 NAME John /Smith/
//	2 GIVN John
//	1 BIRT
//	2 DATE 1 JAN 1900
//
// Nesting is implied by the leading level number only. This package turns
// such a stream into a tree of [Node]s and indexes the top-level records in
// a [Store]. It knows nothing about what tags mean; typed views over the tree
// live in package record, and the relationship graph in package genealogy.
//
// # Basic Usage
//
// Parse a reader with [Parse] or a file with [Open]:
//
//	c := diag.NewCollector()
//	doc, err := gedcom.Parse(r, gedcom.Options{Diagnostics: c})
//	for _, indi := range doc.Store().ByTag("INDI") {
//	    fmt.Println(indi.Pointer().OrElse("?"), indi.ChildDataOr("NAME", "<unknown>"))
//	}
//
// Lookups on a [Structure] return [optional.Value] so that a missing child and
// a present-but-empty child stay distinguishable at the call site.
//
// # Line Grammar
//
// [Classify] matches LEVEL SP (@POINTER@ SP)? TAG (SP DATA)? where LEVEL is 0
// or a number without a leading zero. Lines that do not match are
// continuation data and are appended, newline separated, to the most recently
// opened record. The first line may start with a byte-order mark, removed by
// [StripBOM]. Blank lines are ignored.
//
// # Hierarchy
//
// [Builder] keeps a stack of open records. A record pops every open record
// with a level greater than or equal to its own and attaches to the record
// left on top. Producers that skip levels on the way down, or close several
// levels at once on the way up, are handled without special cases.
//
// Nodes are stored in an arena owned by the [Document] and addressed by
// [NodeID]. The stack holds indices, not node references.
//
// # Anomalies
//
// Parsing never fails on malformed content. Anomalies go to
// [Options.Diagnostics]:
//
//   - grammar: continuation data before any record
//   - structure: a first record with a non-zero level, or a record left with
//     no enclosing record; it is kept as a detached root and not indexed
//   - duplicate-id: a top-level identifier declared twice; the later record
//     wins the identifier index
//   - multiple-values: [Structure.Child] found several children where one
//     was expected
//
// Only I/O failures are returned as errors.
//
// # Concurrency
//
// A [Builder] is single-threaded and owns all state for one file, so separate
// files may be parsed concurrently. A finished [Document] is immutable and safe
// for concurrent reads, as long as its diagnostic sink is.
package gedcom
