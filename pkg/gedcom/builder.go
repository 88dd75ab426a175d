package gedcom

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/diag"
)

// Builder reconstructs the record hierarchy from a stream of lines.
//
// It keeps a stack of currently open records. A new record closes every open
// record whose level is greater than or equal to its own, then attaches to the
// record left on top. Levels on the stack therefore always increase strictly
// from bottom to top, and a record becomes the child of the nearest open
// record with a smaller level, however many levels a producer skipped.
//
// A Builder owns all state for one parse. It is not safe for concurrent use;
// separate files use separate Builders.
type Builder struct {
	doc    *Document
	stack  []NodeID
	sink   diag.Sink
	logger *log.Logger
	line   int
	done   bool
}

// NewBuilder returns a Builder reporting anomalies to opts.Diagnostics.
func NewBuilder(opts Options) *Builder {
	return &Builder{
		doc:    newDocument(opts.Diagnostics),
		sink:   diag.OrDiscard(opts.Diagnostics),
		logger: opts.logger(),
	}
}

// Feed consumes one raw input line: it strips a byte-order mark from the
// first line, ignores blank lines and dispatches to [Builder.OnRecord] or
// [Builder.OnData] depending on [Classify].
func (b *Builder) Feed(raw string) {
	b.line++
	if b.line == 1 {
		raw = StripBOM(raw)
	}
	if strings.TrimSpace(raw) == "" {
		return
	}
	if ln, ok := Classify(raw); ok {
		b.OnRecord(ln)
		return
	}
	b.OnData(raw)
}

// OnRecord opens a new record.
func (b *Builder) OnRecord(ln Line) {
	id := b.doc.add(ln, b.line)

	switch {
	case len(b.stack) == 0 && ln.Level != 0:
		b.report(diag.KindStructure, diag.SeverityError,
			"first record %q has level %d, expected 0; keeping it as a detached root", ln.Tag, ln.Level)
		b.doc.roots = append(b.doc.roots, id)

	case len(b.stack) == 0:
		b.doc.roots = append(b.doc.roots, id)

	default:
		for len(b.stack) > 0 && b.top().Level >= ln.Level {
			b.stack = b.stack[:len(b.stack)-1]
		}
		if len(b.stack) > 0 {
			b.doc.attach(b.stack[len(b.stack)-1], id)
		} else {
			if ln.Level != 0 {
				b.report(diag.KindStructure, diag.SeverityError,
					"record %q at level %d has no enclosing record; keeping it as a detached root", ln.Tag, ln.Level)
			}
			b.doc.roots = append(b.doc.roots, id)
		}
	}

	b.stack = append(b.stack, id)
	b.checkStack()

	if ln.Level == 0 {
		b.doc.store.add(id)
	}
}

// OnData appends continuation text to the record on top of the stack,
// separated by a newline. With no open record the text is dropped and
// reported as a grammar fault.
func (b *Builder) OnData(text string) {
	if len(b.stack) == 0 {
		b.report(diag.KindGrammar, diag.SeverityError,
			"continuation data %q arrived before any record", truncate(strings.TrimSpace(text), 40))
		return
	}
	n := b.top()
	n.data += "\n" + strings.TrimSpace(text)
}

// StackLevels returns the levels of the open records, bottom to top.
func (b *Builder) StackLevels() []int {
	out := make([]int, len(b.stack))
	for i, id := range b.stack {
		out[i] = b.doc.nodes[id].Level
	}
	return out
}

// Finish closes every open record and returns the completed document. The
// Builder must not be used afterwards.
func (b *Builder) Finish() *Document {
	if !b.done {
		b.stack = nil
		b.doc.lines = b.line
		b.done = true
		b.logger.Debug("parsed gedcom",
			"lines", b.line,
			"records", b.doc.Len(),
			"top-level", b.doc.store.Len(),
			"identifiers", len(b.doc.store.byID))
	}
	return b.doc
}

func (b *Builder) top() *Node {
	return &b.doc.nodes[b.stack[len(b.stack)-1]]
}

func (b *Builder) checkStack() {
	for i := 1; i < len(b.stack); i++ {
		if b.doc.nodes[b.stack[i-1]].Level >= b.doc.nodes[b.stack[i]].Level {
			b.report(diag.KindStructure, diag.SeverityError,
				"open record levels out of order: %v", b.StackLevels())
			return
		}
	}
}

func (b *Builder) report(kind diag.Kind, sev diag.Severity, format string, args ...any) {
	b.sink.Report(diag.Diagnostic{
		Kind:     kind,
		Severity: sev,
		Line:     b.line,
		Message:  fmt.Sprintf(format, args...),
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
