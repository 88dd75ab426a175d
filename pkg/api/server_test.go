package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/store"
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
1 FAMS @F1@
0 @I3@ INDI
1 NAME Mary /Jones/
1 SEX F
1 FAMS @F1@
0 @I4@ INDI
1 NAME Tom /Brown/
0 @F1@ FAM
1 HUSB @I2@
1 WIFE @I3@
1 CHIL @I1@
1 CHIL @I9@
0 TRLR
`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	res, err := pipeline.NewRunner(nil, nil, nil).Load(context.Background(), pipeline.Options{Source: []byte(pedigree)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv := httptest.NewServer(NewServer(res, opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, wantStatus int, out any) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s = %d, want %d: %s", method, url, resp.StatusCode, wantStatus, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v: %s", url, err, body)
		}
	}
}

func ids(nodes []graph.Node) string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return strings.Join(out, ",")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	var body HealthResponse
	do(t, http.MethodGet, srv.URL+"/health", http.StatusOK, &body)
	if body.Status != "ok" || body.Build.Version != buildinfo.Version {
		t.Errorf("health = %v", body)
	}
}

func TestHeader(t *testing.T) {
	srv := newTestServer(t, Options{})
	var h HeaderResponse
	do(t, http.MethodGet, srv.URL+"/api/header", http.StatusOK, &h)
	if h.Version != "5.5.1" || h.Form != "LINEAGE-LINKED" || h.CharSet != "UTF-8" || h.Source != "TEST" {
		t.Errorf("header = %+v", h)
	}
	if h.Individuals != 4 || h.Families != 1 || h.GraphHash == "" {
		t.Errorf("header counts = %+v", h)
	}
}

func TestIndividuals(t *testing.T) {
	srv := newTestServer(t, Options{})

	var all []graph.Node
	do(t, http.MethodGet, srv.URL+"/api/individuals", http.StatusOK, &all)
	if ids(all) != "I1,I2,I3,I4" {
		t.Errorf("individuals = %s", ids(all))
	}

	var ann IndividualResponse
	do(t, http.MethodGet, srv.URL+"/api/individuals/@I1@", http.StatusOK, &ann)
	if ann.ID != "I1" || ann.Label != "Ann Smith" || ann.Father != "I2" || ann.Mother != "I3" {
		t.Errorf("I1 = %+v", ann)
	}

	var john IndividualResponse
	do(t, http.MethodGet, srv.URL+"/api/individuals/I2", http.StatusOK, &john)
	if len(john.Spouses) != 1 || john.Spouses[0] != (SpouseRef{Family: "F1", ID: "I3"}) {
		t.Errorf("I2 spouses = %+v", john.Spouses)
	}
	if strings.Join(john.Children, ",") != "I1" {
		t.Errorf("I2 children = %v", john.Children)
	}
}

func TestIndividualErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"Unknown", "/api/individuals/I42", http.StatusNotFound, "NOT_FOUND"},
		{"InvalidID", "/api/individuals/I%201", http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownAncestors", "/api/individuals/I42/ancestors", http.StatusNotFound, "NOT_FOUND"},
		{"BadMode", "/api/individuals/I1/ancestors?mode=sideways", http.StatusBadRequest, "INVALID_MODE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorResponse
			do(t, http.MethodGet, srv.URL+tt.path, tt.status, &e)
			if string(e.Code) != tt.code || e.Error == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestAncestorsAndDescendants(t *testing.T) {
	srv := newTestServer(t, Options{})

	var bfs graph.Graph
	do(t, http.MethodGet, srv.URL+"/api/individuals/I1/ancestors", http.StatusOK, &bfs)
	if ids(bfs.Nodes) != "I1,I2,I3" || bfs.Root != "I1" || bfs.Version != "5.5.1" {
		t.Errorf("bfs ancestors = %s root %q", ids(bfs.Nodes), bfs.Root)
	}
	if bfs.Nodes[1].Row != 1 {
		t.Errorf("parent row = %d, want 1", bfs.Nodes[1].Row)
	}

	var dfs graph.Graph
	do(t, http.MethodGet, srv.URL+"/api/individuals/I1/ancestors?mode=dfs", http.StatusOK, &dfs)
	if ids(dfs.Nodes) != "I1,I3,I2" {
		t.Errorf("dfs ancestors = %s", ids(dfs.Nodes))
	}

	var desc []graph.Node
	do(t, http.MethodGet, srv.URL+"/api/individuals/I3/descendants", http.StatusOK, &desc)
	if ids(desc) != "I3,I1" {
		t.Errorf("descendants = %s", ids(desc))
	}
}

func TestFamiliesAndDiagnostics(t *testing.T) {
	srv := newTestServer(t, Options{})

	var fams []map[string]any
	do(t, http.MethodGet, srv.URL+"/api/families", http.StatusOK, &fams)
	if len(fams) != 1 || fams[0]["id"] != "F1" || fams[0]["husband_id"] != "I2" {
		t.Errorf("families = %v", fams)
	}

	var warnings []diag.Diagnostic
	do(t, http.MethodGet, srv.URL+"/api/diagnostics?severity=warning", http.StatusOK, &warnings)
	var dangling bool
	for _, d := range warnings {
		if d.Severity < diag.SeverityWarning {
			t.Errorf("diagnostic below floor: %+v", d)
		}
		dangling = dangling || d.Kind == diag.KindDanglingReference
	}
	if !dangling {
		t.Errorf("missing dangling reference in %v", warnings)
	}

	do(t, http.MethodGet, srv.URL+"/api/diagnostics?severity=loud", http.StatusBadRequest, nil)
}

func TestSnapshots(t *testing.T) {
	srv := newTestServer(t, Options{Store: store.NewMemoryStore(), Source: "/data/smith.ged"})

	var created store.Snapshot
	do(t, http.MethodPost, srv.URL+"/api/snapshots", http.StatusCreated, &created)
	if created.ID == "" || created.Name != "smith" || len(created.Graph.Nodes) != 4 || created.FileHash == "" {
		t.Errorf("created = %+v", created)
	}
	do(t, http.MethodPost, srv.URL+"/api/snapshots?name=other", http.StatusCreated, nil)

	var list []store.Summary
	do(t, http.MethodGet, srv.URL+"/api/snapshots?limit=10", http.StatusOK, &list)
	if len(list) != 2 {
		t.Errorf("list = %+v", list)
	}
	do(t, http.MethodGet, srv.URL+"/api/snapshots?limit=x", http.StatusBadRequest, nil)

	var got store.Snapshot
	do(t, http.MethodGet, srv.URL+"/api/snapshots/"+created.ID, http.StatusOK, &got)
	if got.Graph.Version != "5.5.1" {
		t.Errorf("snapshot version = %q", got.Graph.Version)
	}

	do(t, http.MethodDelete, srv.URL+"/api/snapshots/"+created.ID, http.StatusNoContent, nil)
	do(t, http.MethodGet, srv.URL+"/api/snapshots/"+created.ID, http.StatusNotFound, nil)
	do(t, http.MethodDelete, srv.URL+"/api/snapshots/"+created.ID, http.StatusNotFound, nil)
}

func TestSnapshotsDisabled(t *testing.T) {
	srv := newTestServer(t, Options{})
	do(t, http.MethodGet, srv.URL+"/api/snapshots", http.StatusNotFound, nil)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewPrometheusHooks(reg))
	defer observability.Reset()

	srv := newTestServer(t, Options{Gatherer: reg})
	do(t, http.MethodGet, srv.URL+"/api/individuals/I1", http.StatusOK, nil)
	do(t, http.MethodGet, srv.URL+"/api/individuals/I42", http.StatusNotFound, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		`lineage_http_requests_total{method="GET",route="/api/individuals/{id}",status="200"} 1`,
		`lineage_http_requests_total{method="GET",route="/api/individuals/{id}",status="404"} 1`,
		`lineage_http_errors_total{method="GET",route="/api/individuals/{id}"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %s\n%s", want, text)
		}
	}
}
