package gedcom

import (
	"bufio"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/errors"
)

// maxLineSize bounds a single input line. Embedded notes in some exports run
// far past bufio's default token size.
const maxLineSize = 1 << 20

// Options configures a parse.
type Options struct {
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// Diagnostics receives every anomaly found while parsing and while
	// reading views of the resulting document. Nil discards them.
	Diagnostics diag.Sink
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Parse reads a whole GEDCOM stream and returns the reconstructed document.
//
// Malformed content never fails the parse: it is reported to
// opts.Diagnostics and parsing continues. Only a read failure returns an
// error.
func Parse(r io.Reader, opts Options) (*Document, error) {
	b := NewBuilder(opts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		b.Feed(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read gedcom input at line %d", b.line+1)
	}
	return b.Finish(), nil
}

// Open parses the file at path. Files starting with a UTF-16 byte-order mark
// are transcoded to UTF-8; everything else is read as UTF-8.
func Open(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "gedcom file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	return Parse(NewDecodingReader(f), opts)
}

// NewDecodingReader wraps r so that a leading UTF-16 byte-order mark selects
// UTF-16 decoding. A UTF-8 mark is consumed; input without a mark passes
// through unchanged.
func NewDecodingReader(r io.Reader) io.Reader {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, dec)
}
