package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/graph"
)

// =============================================================================
// Response Types
// =============================================================================

// IndividualResponse is one individual with its direct relations.
type IndividualResponse struct {
	graph.Node
	Father   string      `json:"father,omitempty"`
	Mother   string      `json:"mother,omitempty"`
	Spouses  []SpouseRef `json:"spouses"`
	Children []string    `json:"children"`
}

// HealthResponse reports liveness and the running build.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// SpouseRef is a spouse relation under a family.
type SpouseRef struct {
	Family string `json:"family"`
	ID     string `json:"id"`
}

// HeaderResponse describes the loaded file.
type HeaderResponse struct {
	Version     string `json:"version,omitempty"`
	Form        string `json:"form,omitempty"`
	CharSet     string `json:"charset,omitempty"`
	Source      string `json:"source,omitempty"`
	Individuals int    `json:"individuals"`
	Families    int    `json:"families"`
	FileHash    string `json:"file_hash"`
	GraphHash   string `json:"graph_hash"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	h, ok := s.result.Header().Get()
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "file has no header"))
		return
	}
	resp := HeaderResponse{
		Source:      h.Source.OrElse(""),
		Individuals: s.result.Stats.Individuals,
		Families:    len(s.result.Families()),
		FileHash:    s.result.FileHash,
		GraphHash:   s.result.GraphHash,
	}
	if g, ok := h.GEDC.Get(); ok {
		resp.Version, resp.Form = g.Version, g.Form
	}
	if c, ok := h.CharSet.Get(); ok {
		resp.CharSet = c.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListIndividuals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Nodes)
}

func (s *Server) handleGetIndividual(w http.ResponseWriter, r *http.Request) {
	ind, err := s.individual(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := IndividualResponse{
		Node:     s.node(ind.ID),
		Father:   ind.Father.OrElse(""),
		Mother:   ind.Mother.OrElse(""),
		Spouses:  []SpouseRef{},
		Children: append([]string{}, ind.Children...),
	}
	for _, sp := range ind.Spouses() {
		resp.Spouses = append(resp.Spouses, SpouseRef{Family: sp.FamilyID, ID: sp.SpouseID})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	ind, err := s.individual(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode := genealogy.ModeBreadthFirst
	if m := r.URL.Query().Get("mode"); m != "" {
		if mode, err = genealogy.ParseMode(m); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	gj, err := graph.Ancestry(s.result.Graph, ind.ID, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	gj.Version = s.graph.Version
	writeJSON(w, http.StatusOK, gj)
}

func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	ind, err := s.individual(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	line, err := s.result.Graph.Descendants(ind.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nodes := make([]graph.Node, 0, len(line))
	for _, d := range line {
		nodes = append(nodes, s.node(d.ID))
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.result.Families())
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	floor := diag.SeverityDebug
	if v := r.URL.Query().Get("severity"); v != "" {
		if err := floor.UnmarshalText([]byte(v)); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "severity"))
			return
		}
	}
	out := []diag.Diagnostic{}
	for _, d := range s.result.Diagnostics {
		if d.Severity >= floor {
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Helpers
// =============================================================================

// individual resolves the {id} URL parameter. Identifiers may be given with
// or without their @ delimiters.
func (s *Server) individual(r *http.Request) (*genealogy.Individual, error) {
	raw := chi.URLParam(r, "id")
	if err := errors.ValidateIdentifier(raw); err != nil {
		return nil, err
	}
	id := errors.NormalizeIdentifier(raw)
	ind, ok := s.result.Graph.Individual(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "individual %s not found", id)
	}
	return ind, nil
}

func (s *Server) node(id string) graph.Node {
	if i, ok := s.nodeIndex[id]; ok {
		return s.graph.Nodes[i]
	}
	return graph.Node{ID: id}
}
