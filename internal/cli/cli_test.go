package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/graph"
)

const pedigree = `0 HEAD
1 SOUR TEST
1 GEDC
2 VERS 5.5.1
2 FORM LINEAGE-LINKED
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Ann /Smith/
1 SEX F
1 FAMC @F1@
0 @I2@ INDI
1 NAME John /Smith/
1 SEX M
1 BIRT
2 DATE 1920
1 FAMS @F1@
0 @I3@ INDI
1 NAME Mary /Jones/
1 SEX F
1 FAMS @F1@
0 @F1@ FAM
1 HUSB @I2@
1 WIFE @I3@
1 CHIL @I1@
1 CHIL @I9@
0 TRLR
`

// testEnv isolates config and cache directories and returns a directory
// holding smith.ged.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("LINEAGE_REDIS_URL", "")
	t.Setenv("LINEAGE_MONGO_URI", "")
	t.Setenv("LINEAGE_ADDR", "")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "smith.ged"), []byte(pedigree), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := testEnv(t)
	out, err := run(t, "inspect", filepath.Join(dir, "smith.ged"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"5.5.1", "LINEAGE-LINKED", "UTF-8", "TEST", "3 individuals", "1 families", "Ann Smith", "I2, I3", "1920", "dangling-reference"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectSeverity(t *testing.T) {
	dir := testEnv(t)
	out, err := run(t, "inspect", "--severity", "error", filepath.Join(dir, "smith.ged"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if strings.Contains(out, "dangling-reference") {
		t.Errorf("warning listed below the error floor:\n%s", out)
	}

	_, err = run(t, "inspect", "--severity", "loud", filepath.Join(dir, "smith.ged"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad severity = %v, want INVALID_INPUT", err)
	}
}

func TestAncestors(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "smith.ged")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "BreadthFirst", args: []string{"ancestors", path, "I1", "--json"}, want: []string{"I1", "I2", "I3"}},
		{name: "DepthFirst", args: []string{"ancestors", path, "@I1@", "--mode", "dfs", "--json"}, want: []string{"I1", "I3", "I2"}},
		{name: "NoParents", args: []string{"ancestors", path, "I2", "--json"}, want: []string{"I2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("ancestors: %v", err)
			}
			var gj graph.Graph
			if err := json.Unmarshal([]byte(out), &gj); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			var got []string
			for _, n := range gj.Nodes {
				got = append(got, n.ID)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ancestors = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAncestorsText(t *testing.T) {
	dir := testEnv(t)
	out, err := run(t, "ancestors", filepath.Join(dir, "smith.ged"), "I1")
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if !strings.Contains(out, "Ancestors of I1") || !strings.Contains(out, "Mary Jones") || !strings.Contains(out, "3 individuals") {
		t.Errorf("output:\n%s", out)
	}
}

func TestAncestorsErrors(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "smith.ged")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{name: "UnknownID", args: []string{"ancestors", path, "I42"}, code: errors.ErrCodeNotFound},
		{name: "BadID", args: []string{"ancestors", path, "I 1"}, code: errors.ErrCodeInvalidInput},
		{name: "BadMode", args: []string{"ancestors", path, "I1", "--mode", "sideways"}, code: errors.ErrCodeInvalidMode},
		{name: "MissingFile", args: []string{"ancestors", filepath.Join(dir, "nope.ged"), "I1"}, code: errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestVersionGate(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "old.ged")
	old := strings.Replace(pedigree, "2 VERS 5.5.1", "2 VERS 5.5", 1)
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "inspect", path); !errors.Is(err, errors.ErrCodeUnsupportedVersion) {
		t.Fatalf("inspect = %v, want UNSUPPORTED_VERSION", err)
	}
	out, err := run(t, "--allow-any-version", "inspect", path)
	if err != nil {
		t.Fatalf("inspect --allow-any-version: %v", err)
	}
	if !strings.Contains(out, "unsupported-version") {
		t.Errorf("expected a version warning:\n%s", out)
	}
}

func TestRender(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "smith.ged")
	outDir := filepath.Join(dir, "out", "nested")

	out, err := run(t, "render", path, "--format", "json,dot,yaml", "-o", outDir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"smith.json", "smith.dot", "smith.yaml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(out, name) {
			t.Errorf("output does not list %s:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "--root I1") {
		t.Errorf("missing next step hint:\n%s", out)
	}

	if _, err := run(t, "render", path, "--root", "@I1@", "--format", "tex", "-o", outDir); err != nil {
		t.Fatalf("render --root: %v", err)
	}
	tex, err := os.ReadFile(filepath.Join(outDir, "smith.I1.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(tex), `\begin{document}`) || !strings.Contains(string(tex), "Smith") {
		t.Errorf("unexpected tex output:\n%s", tex)
	}
}

func TestRenderStdout(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "smith.ged")

	out, err := run(t, "render", path, "--format", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("stdout = %q", out)
	}

	_, err = run(t, "render", path, "--format", "dot,json", "-o", "-")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("two formats to stdout = %v, want INVALID_INPUT", err)
	}

	_, err = run(t, "render", path, "--format", "png", "-o", "-")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("png = %v, want INVALID_FORMAT", err)
	}
}

func TestEnsureOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "Existing", path: dir},
		{name: "Created", path: filepath.Join(dir, "a", "b")},
		{name: "IsFile", path: file, wantErr: true},
		{name: "Empty", path: "", wantErr: true},
		{name: "Traversal", path: "../escape", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ensureOutputDir(tt.path)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPath) {
					t.Errorf("err = %v, want INVALID_PATH", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ensureOutputDir: %v", err)
			}
			entries, _ := os.ReadDir(tt.path)
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".lineage-") {
					t.Errorf("probe file %s left behind", e.Name())
				}
			}
		})
	}
}

func TestPublishNeedsMongo(t *testing.T) {
	dir := testEnv(t)
	_, err := run(t, "publish", filepath.Join(dir, "smith.ged"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("publish = %v, want INVALID_INPUT", err)
	}
}

func TestCache(t *testing.T) {
	dir := testEnv(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	cacheDir := strings.TrimSpace(out)
	if filepath.Base(cacheDir) != appName {
		t.Fatalf("cache path = %q", cacheDir)
	}

	if _, err := run(t, "inspect", filepath.Join(dir, "smith.ged")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache not populated: %v", err)
	}

	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared cache") {
		t.Errorf("output = %q", out)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestNoCache(t *testing.T) {
	dir := testEnv(t)
	if _, err := run(t, "--no-cache", "inspect", filepath.Join(dir, "smith.ged")); err != nil {
		t.Fatal(err)
	}
	out, _ := run(t, "cache", "path")
	if entries, _ := os.ReadDir(strings.TrimSpace(out)); len(entries) != 0 {
		t.Errorf("--no-cache wrote %d cache entries", len(entries))
	}
}

func TestConfigFile(t *testing.T) {
	dir := testEnv(t)
	cfg := filepath.Join(dir, "lineage.toml")
	if err := os.WriteFile(cfg, []byte("[traversal]\nmode = \"dfs\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", cfg, "ancestors", filepath.Join(dir, "smith.ged"), "I1", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var gj graph.Graph
	if err := json.Unmarshal([]byte(out), &gj); err != nil {
		t.Fatal(err)
	}
	if len(gj.Nodes) != 3 || gj.Nodes[1].ID != "I3" {
		t.Errorf("config mode not applied: %+v", gj.Nodes)
	}

	if _, err := run(t, "--config", filepath.Join(dir, "missing.toml"), "cache", "path"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing config = %v, want FILE_NOT_FOUND", err)
	}
}

func TestVersionFlag(t *testing.T) {
	testEnv(t)
	var buf bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--version"})
	root.SetOut(&buf)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "lineage ") {
		t.Errorf("version output = %q", buf.String())
	}
}
