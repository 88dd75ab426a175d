// Package store persists published relationship graphs as snapshots.
//
// A snapshot is an immutable copy of one graph in its serialization format
// ([graph.Graph]) together with where it came from. Publishing the same
// file twice creates two snapshots; [Store.Latest] returns the newest one
// for a name.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/graph"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = stderrors.New("snapshot not found")

// Snapshot is one published graph.
type Snapshot struct {
	ID          string            `json:"id" bson:"_id"`
	Name        string            `json:"name" bson:"name"`
	Source      string            `json:"source" bson:"source"`         // Input file name
	FileHash    string            `json:"file_hash" bson:"file_hash"`   // SHA-256 of the input
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"` // UTC
	Graph       graph.Graph       `json:"graph" bson:"graph"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Summary is a snapshot without its graph, for listings.
type Summary struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Version     string    `json:"version,omitempty" bson:"version,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Individuals int       `json:"individuals" bson:"individuals"`
}

// Store persists snapshots.
type Store interface {
	// Save assigns an ID and creation time when missing and stores s.
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	// Latest returns the most recent snapshot with the given name.
	Latest(ctx context.Context, name string) (*Snapshot, error)
	// List returns summaries, newest first, at most limit (0 for all).
	List(ctx context.Context, limit int) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// prepare fills the generated fields of s.
func prepare(s *Snapshot, now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now.UTC()
	}
}

func summarize(s *Snapshot) Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Version:     s.Graph.Version,
		CreatedAt:   s.CreatedAt,
		Individuals: len(s.Graph.Nodes),
	}
}
