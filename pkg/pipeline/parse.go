package pipeline

import (
	"bytes"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom"
	pkgio "github.com/matzehuels/lineage/pkg/io"
)

// ReadSource returns the input bytes: opts.Source when set, otherwise the
// contents of opts.Path.
func ReadSource(opts Options) ([]byte, error) {
	if opts.Source != nil {
		return opts.Source, nil
	}
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "gedcom file %s", opts.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Path)
	}
	return data, nil
}

// Parse parses a GEDCOM file and reads its record views. Anomalies go to
// the returned export's Diagnostics and to opts.Logger; only a read failure
// is an error.
func Parse(data []byte, opts Options) (pkgio.Export, error) {
	collector := diag.NewCollector()
	doc, err := gedcom.Parse(gedcom.NewDecodingReader(bytes.NewReader(data)), gedcom.Options{
		Logger:      opts.Logger,
		Diagnostics: diag.Multi(collector, diag.NewLogSink(opts.Logger)),
	})
	if err != nil {
		return pkgio.Export{}, err
	}

	if opts.Logger.GetLevel() <= log.DebugLevel {
		opts.Logger.Debug("document tree", "source", opts.SourceName(), "nodes", doc.Len(), "tree", doc.String())
	}

	// Views report multiple-value anomalies while they are read, so the
	// collector is drained afterwards.
	exp := pkgio.FromStore(doc.Store(), nil)
	exp.Diagnostics = collector.All()
	return exp, nil
}

// CheckVersion applies the version gate to a loaded file. A file outside
// the supported set is rejected with UNSUPPORTED_VERSION unless
// opts.AllowAnyVersion is set, in which case a warning is returned instead.
func CheckVersion(exp pkgio.Export, opts Options) (*diag.Diagnostic, error) {
	version, ok := exp.Version().Get()
	if ok && opts.Supports(version) {
		return nil, nil
	}

	supported := strings.Join(opts.SupportedVersions, ", ")
	msg := "file declares no GEDCOM version (supported: " + supported + ")"
	if ok {
		msg = "GEDCOM version " + version + " is not supported (supported: " + supported + ")"
	}
	if !opts.AllowAnyVersion {
		return nil, errors.New(errors.ErrCodeUnsupportedVersion, "%s", msg)
	}
	return &diag.Diagnostic{
		Kind:     diag.KindUnsupportedVersion,
		Severity: diag.SeverityWarning,
		Message:  msg,
	}, nil
}
