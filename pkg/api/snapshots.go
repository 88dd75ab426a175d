package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/store"
)

// defaultListLimit caps GET /api/snapshots without a limit parameter.
const defaultListLimit = 50

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.opts.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, storeError(err, "list snapshots"))
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handlePublish stores the loaded graph as a new snapshot.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	name := s.opts.Name
	if v := r.URL.Query().Get("name"); v != "" {
		name = v
	}
	snap := &store.Snapshot{
		Name:        name,
		Source:      s.opts.Source,
		FileHash:    s.result.FileHash,
		Graph:       s.graph,
		Diagnostics: s.result.Diagnostics,
	}
	if err := s.opts.Store.Save(r.Context(), snap); err != nil {
		s.writeError(w, r, storeError(err, "save snapshot"))
		return
	}
	s.logger.Info("published snapshot", "id", snap.ID, "name", snap.Name)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.opts.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, storeError(err, "snapshot %s", id))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.opts.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, storeError(err, "snapshot %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps store failures onto API error codes.
func storeError(err error, format string, args ...any) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeNotFound, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}
