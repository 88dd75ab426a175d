package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output directory, "-" for stdout
	formats  []string // json, yaml, dot, svg, tex
	root     string   // render only this individual and their ancestors
	mode     string   // traversal order of the ancestor subset
	detailed bool     // dates and identifiers in diagram labels
	title    string   // LaTeX document title
	refresh  bool     // bypass cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a family tree to JSON, YAML, DOT, SVG or LaTeX",
		Long: `Render a GEDCOM file in one or more formats. With --root only that
individual and their ancestors are rendered.

Files are written to the output directory as <name>.<format>, or
<name>.<root>.<format> when --root is set. Use -o - to print a single
format to stdout.`,
		Example: `  lineage render family.ged --format svg,tex -o out
  lineage render family.ged --root I1 --format dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats, c.Config.Output.Formats)
			if opts.output == "" {
				opts.output = c.Config.Output.Dir
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory, or - for stdout (default from config)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): json, yaml, dot, svg, tex (comma-separated)")
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "render only this individual and their ancestors")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "ancestor order with --root: bfs or dfs")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show dates and identifiers in diagrams")
	cmd.Flags().StringVar(&opts.title, "title", "", "LaTeX document title (default: file name)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, ro renderOpts) error {
	ctx := cmd.Context()
	toStdout := ro.output == "-"
	if toStdout && len(ro.formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(ro.formats))
	}
	if !toStdout {
		if err := ensureOutputDir(ro.output); err != nil {
			return err
		}
	}

	opts := c.options(path)
	opts.Formats = ro.formats
	opts.Root = ro.root
	opts.Detailed = ro.detailed
	opts.Title = ro.title
	opts.Refresh = ro.refresh
	if ro.mode != "" {
		opts.Mode = ro.mode
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spin *Spinner
	if !toStdout && slices.Contains(opts.Formats, pipeline.FormatSVG) {
		spin = newSpinnerWithContext(ctx, "Rendering pedigree...")
		spin.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if toStdout {
		_, err := stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	base := outputBase(path, opts.Root)
	var written []string
	for _, format := range opts.Formats {
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		out := filepath.Join(ro.output, base+"."+format)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
		}
		written = append(written, out)
	}
	prog.done("rendered", "files", len(written), "cached", res.CacheInfo.RenderHit)

	printSuccess("Rendered %s", filepath.Base(path))
	for _, out := range written {
		printFile(out)
	}
	printStats(res.Stats.Individuals, res.Stats.Families, res.CacheInfo.LoadHit && res.CacheInfo.RenderHit)
	if opts.Root == "" && len(res.Graph.Individuals()) > 0 {
		printNewline()
		printNextStep("Render one line of ancestry", fmt.Sprintf("lineage render %s --root %s", path, res.Graph.Individuals()[0].ID))
	}
	return nil
}

// parseFormats splits the --format flag, falling back to fallback when it is
// empty.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputBase names rendered files after the input, and after the root when
// rendering one ancestry.
func outputBase(path, root string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if root != "" {
		base += "." + errors.NormalizeIdentifier(root)
	}
	return base
}

// ensureOutputDir validates dir, creates it when missing and checks that it
// is writable.
func ensureOutputDir(dir string) error {
	if err := errors.ValidateOutputDir(dir); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return errors.New(errors.ErrCodeInvalidPath, "output path %s exists and is not a directory", dir)
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
		}
	case err != nil:
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", dir)
	}

	probe, err := os.CreateTemp(dir, ".lineage-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "output directory %s is not writable", dir)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
