// Package pipeline provides the load → gate → graph → render pipeline for
// lineage.
//
// The CLI and the API server both go through this package, so a file is
// parsed, version-checked, cross-referenced and rendered the same way
// everywhere.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read the GEDCOM file, parse it and project the record views
//  2. Gate: reject header versions outside the supported set
//  3. Graph: cross-reference families into a relationship graph
//  4. Render: produce outputs (JSON, YAML, DOT, SVG, LaTeX)
//
// The record views of stage 1 are cached by file content hash, so a second
// run on an unchanged file skips parsing. Rendered artifacts are cached by
// graph hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "family.ged",
//	    Root:    "I1",
//	    Formats: []string{"svg", "tex"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load, gate and build only
//	result, err := runner.Load(ctx, opts)
//
//	// Render an already loaded result
//	artifacts, err := runner.Render(ctx, result, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/genealogy"
	pkgio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/optional"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMode is the default ancestor traversal order.
	DefaultMode = "bfs"

	// DefaultCacheTTL is how long parsed files and artifacts stay cached.
	DefaultCacheTTL = 24 * time.Hour
)

// DefaultSupportedVersions are the GEDCOM versions accepted without
// AllowAnyVersion.
var DefaultSupportedVersions = []string{"5.5.1"}

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatTeX  = "tex"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatTeX:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Path              string   `json:"path,omitempty"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
	AllowAnyVersion   bool     `json:"allow_any_version,omitempty"`
	Refresh           bool     `json:"refresh,omitempty"`

	// Render options
	Root     string   `json:"root,omitempty"` // Render only this individual and its ancestors
	Mode     string   `json:"mode,omitempty"` // Walk order of the ancestor subset
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Dates and identifiers in diagram labels
	Title    string   `json:"title,omitempty"`    // LaTeX document title

	// Runtime options (not serialized)
	Source   []byte        `json:"-"` // Input bytes; Path then only names the source
	CacheTTL time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Export holds the record-level views and the parse diagnostics.
	Export pkgio.Export

	// Graph is the relationship graph.
	Graph *genealogy.Graph

	// FileHash is the content hash of the input.
	FileHash string

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Diagnostics are the parse diagnostics followed by those raised while
	// building the graph.
	Diagnostics []diag.Diagnostic

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Families returns the family views in file order.
func (r *Result) Families() []record.Family { return r.Export.Families }

// Header returns the header view, if the file has one.
func (r *Result) Header() optional.Value[record.Header] { return r.Export.Header }

// HeaderVersion returns HEAD.GEDC.VERS, if recorded.
func (r *Result) HeaderVersion() optional.Value[string] { return r.Export.Version() }

// Stats contains pipeline execution statistics.
type Stats struct {
	Individuals int
	Families    int
	ParseTime   time.Duration
	BuildTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the record views came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, yaml, dot, svg, tex)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "path or source is required")
	}
	if len(o.SupportedVersions) == 0 {
		o.SupportedVersions = DefaultSupportedVersions
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Title == "" && o.Path != "" {
		o.Title = strings.TrimSuffix(filepath.Base(o.Path), filepath.Ext(o.Path))
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := genealogy.ParseMode(o.Mode); err != nil {
		return err
	}
	if o.Root != "" {
		if err := errors.ValidateIdentifier(o.Root); err != nil {
			return err
		}
		o.Root = errors.NormalizeIdentifier(o.Root)
	}
	return nil
}

// SourceName returns the name of the input used in logs and hooks.
func (o *Options) SourceName() string {
	if o.Path != "" {
		return o.Path
	}
	return "<memory>"
}

// Supports reports whether version passes the version gate.
func (o *Options) Supports(version string) bool {
	return o.AllowAnyVersion || slices.Contains(o.SupportedVersions, version)
}

// GraphKeyOpts returns cache key options for the load stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		AllowAnyVersion:   o.AllowAnyVersion,
		SupportedVersions: o.SupportedVersions,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	mode := ""
	if o.Root != "" {
		mode = o.Mode
	}
	return cache.ArtifactKeyOpts{
		Format:   format,
		Root:     o.Root,
		Mode:     mode,
		Detailed: o.Detailed,
		Title:    o.Title,
	}
}
