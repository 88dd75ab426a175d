// Package diag carries non-fatal anomalies found while reading a GEDCOM file.
//
// GEDCOM exports are frequently slightly non-conformant, so the parser and
// graph builder never stop on malformed content. They report what they found
// to a [Sink] and keep going. Callers decide what to do with the reports:
// collect them for display, log them, or both.
//
//	c := diag.NewCollector()
//	sink := diag.Multi(c, diag.NewLogSink(logger))
//	doc := gedcom.Parse(r, gedcom.Options{Diagnostics: sink})
//	for _, d := range c.AtLeast(diag.SeverityWarning) { ... }
package diag

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// KindGrammar marks a line that cannot be placed: typically continuation
	// data arriving before any record has been opened.
	KindGrammar Kind = "grammar"

	// KindStructure marks a nesting anomaly, such as a first record with a
	// non-zero level.
	KindStructure Kind = "structure"

	// KindDanglingReference marks a family pointing at an individual that
	// does not exist in the file.
	KindDanglingReference Kind = "dangling-reference"

	// KindDuplicateID marks a top-level identifier declared more than once.
	KindDuplicateID Kind = "duplicate-id"

	// KindMultipleValues marks a lookup that expected at most one child
	// record but found several.
	KindMultipleValues Kind = "multiple-values"

	// KindUnsupportedVersion marks a header version the caller cannot process.
	KindUnsupportedVersion Kind = "unsupported-version"
)

// Severity orders diagnostics by importance.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	for c := SeverityDebug; c <= SeverityError; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}

// Diagnostic is one reported anomaly. Line is the 1-based input line number,
// or 0 when the anomaly is not tied to a line (e.g. graph construction).
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// OrDiscard returns s, or [Discard] when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Collector keeps diagnostics in arrival order. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// All returns a copy of every collected diagnostic.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// OfKind returns the diagnostics of kind k.
func (c *Collector) OfKind(k Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// AtLeast returns the diagnostics whose severity is s or higher.
func (c *Collector) AtLeast(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Severity >= s {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// LogSink writes diagnostics to a charmbracelet logger at a level matching
// their severity.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink returns a sink writing to l, or to log.Default() if l is nil.
func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = log.Default()
	}
	return &LogSink{logger: l}
}

// Report logs d.
func (s *LogSink) Report(d Diagnostic) {
	kv := []any{"kind", d.Kind}
	if d.Line > 0 {
		kv = append(kv, "line", d.Line)
	}
	switch d.Severity {
	case SeverityDebug:
		s.logger.Debug(d.Message, kv...)
	case SeverityInfo:
		s.logger.Info(d.Message, kv...)
	case SeverityWarning:
		s.logger.Warn(d.Message, kv...)
	default:
		s.logger.Error(d.Message, kv...)
	}
}

type multi []Sink

func (m multi) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

// Multi fans a diagnostic out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}
