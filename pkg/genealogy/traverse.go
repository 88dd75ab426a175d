package genealogy

import (
	"iter"
	"strings"

	"github.com/matzehuels/lineage/pkg/errors"
)

// Mode selects the ancestor walk order.
type Mode int

const (
	// ModeBreadthFirst lists generation by generation.
	ModeBreadthFirst Mode = iota
	// ModeDepthFirst follows one line of descent to its end before
	// backtracking.
	ModeDepthFirst
)

func (m Mode) String() string {
	if m == ModeDepthFirst {
		return "dfs"
	}
	return "bfs"
}

// ParseMode parses "bfs", "breadth-first", "dfs" or "depth-first",
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bfs", "breadth-first", "breadth":
		return ModeBreadthFirst, nil
	case "dfs", "depth-first", "depth":
		return ModeDepthFirst, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown traversal mode %q (use bfs or dfs)", s)
}

// DepthFirst walks the ancestors of root, root first, using an explicit
// stack. A popped individual is marked visited and its father, then its
// mother, are pushed, so the maternal line is explored first. Children and
// spouses are never followed.
//
// Each individual is yielded at most once even when two lines of ancestry
// converge. The sequence is lazy; ranging over it again restarts the walk.
func DepthFirst(g *Graph, root *Individual) iter.Seq[*Individual] {
	return func(yield func(*Individual) bool) {
		if root == nil {
			return
		}
		visited := make(map[string]bool)
		stack := []*Individual{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			if !yield(n) {
				return
			}
			if f, ok := g.Father(n); ok {
				stack = append(stack, f)
			}
			if m, ok := g.Mother(n); ok {
				stack = append(stack, m)
			}
		}
	}
}

// BreadthFirst walks the ancestors of root, root first, using a queue. Each
// individual is marked visited when it is enqueued, father before mother, so
// it is never queued twice.
func BreadthFirst(g *Graph, root *Individual) iter.Seq[*Individual] {
	return func(yield func(*Individual) bool) {
		if root == nil {
			return
		}
		visited := map[string]bool{root.ID: true}
		queue := []*Individual{root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if !yield(n) {
				return
			}
			for _, lookup := range []func(*Individual) (*Individual, bool){g.Father, g.Mother} {
				p, ok := lookup(n)
				if !ok || visited[p.ID] {
					continue
				}
				visited[p.ID] = true
				queue = append(queue, p)
			}
		}
	}
}

// Walk returns the ancestor sequence of root in the given mode.
func Walk(g *Graph, root *Individual, mode Mode) iter.Seq[*Individual] {
	if mode == ModeDepthFirst {
		return DepthFirst(g, root)
	}
	return BreadthFirst(g, root)
}

// AncestorsOf lists the individual id and all its ancestors in the given
// mode. The individual itself comes first.
func (g *Graph) AncestorsOf(id string, mode Mode) ([]*Individual, error) {
	root, ok := g.individuals[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeNotFound, unknown(id), "no individual %s", id)
	}
	var out []*Individual
	for ind := range Walk(g, root, mode) {
		out = append(out, ind)
	}
	return out, nil
}

// Descendants lists the individual id and all its descendants, breadth-first
// over children links.
func (g *Graph) Descendants(id string) ([]*Individual, error) {
	root, ok := g.individuals[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeNotFound, unknown(id), "no individual %s", id)
	}
	visited := map[string]bool{root.ID: true}
	queue := []*Individual{root}
	var out []*Individual
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		for _, c := range g.ChildrenOf(n) {
			if !visited[c.ID] {
				visited[c.ID] = true
				queue = append(queue, c)
			}
		}
	}
	return out, nil
}
