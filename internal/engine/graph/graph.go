// Package graph implements the frame graph: an undirected connectivity graph over
// frame ids plus the table of directed transformations stored on its edges.
package graph

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/zerr"
)

// Engine stores transformations between frames and answers route queries.
// It is not safe for concurrent use; the owning event loop serialises access.
type Engine struct {
	// vertices maps a frame id to its index in ids and adj.
	vertices map[int64]int
	ids      []int64
	// adj holds, for each vertex index, the neighbour indices sorted by frame id.
	adj     [][]int
	tensors map[domain.Edge]domain.Matrix
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{
		vertices: make(map[int64]int),
		tensors:  make(map[domain.Edge]domain.Matrix),
	}
}

// UpdateTransformation stores tf at its edge and the inverse at the inverted edge.
// The frames are connected the first time a transformation between them is stored.
// It reports false when the matrix is singular; the inverse direction then holds
// the zero matrix. A transformation from a frame to itself is ignored.
func (e *Engine) UpdateTransformation(tf domain.Transformation) bool {
	edge := tf.Edge()
	if edge.From == edge.To {
		return true
	}
	inverse, ok := tf.Matrix.Inverse()

	_, connected := e.tensors[edge]
	e.tensors[edge] = tf.Matrix
	e.tensors[edge.Inverted()] = inverse

	if !connected {
		e.addEdge(edge)
	}
	return ok
}

// RemoveTransformation erases both directions of edge and disconnects its frames.
// Removing an edge that is not stored is a no-op.
func (e *Engine) RemoveTransformation(edge domain.Edge) {
	if _, ok := e.tensors[edge]; !ok {
		return
	}
	delete(e.tensors, edge)
	delete(e.tensors, edge.Inverted())
	e.removeEdge(edge)
}

// HasFrame reports whether id is a vertex of the graph.
func (e *Engine) HasFrame(id int64) bool {
	_, ok := e.vertices[id]
	return ok
}

// Frames returns every known frame id in ascending order.
func (e *Engine) Frames() []int64 {
	ids := slices.Clone(e.ids)
	slices.Sort(ids)
	return ids
}

// EdgeCount returns the number of undirected edges.
func (e *Engine) EdgeCount() int {
	return len(e.tensors) / 2
}

// Transformation returns the matrix stored at edge.
func (e *Engine) Transformation(edge domain.Edge) (domain.Matrix, bool) {
	m, ok := e.tensors[edge]
	return m, ok
}

// Transformations yields every stored directed edge, ordered by (From, To).
func (e *Engine) Transformations() iter.Seq2[domain.Edge, domain.Matrix] {
	return func(yield func(domain.Edge, domain.Matrix) bool) {
		edges := slices.SortedFunc(maps.Keys(e.tensors), func(a, b domain.Edge) int {
			return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
		})
		for _, edge := range edges {
			if !yield(edge, e.tensors[edge]) {
				return
			}
		}
	}
}

// FindPath returns the shortest route from edge.From to edge.To.
// The route starts at edge.From and ends at edge.To.
func (e *Engine) FindPath(edge domain.Edge) (domain.Path, error) {
	from, ok := e.vertices[edge.From]
	if !ok {
		return nil, &domain.UnknownFrameError{Frame: edge.From}
	}
	to, ok := e.vertices[edge.To]
	if !ok {
		return nil, &domain.UnknownFrameError{Frame: edge.To}
	}
	if from == to {
		return domain.Path{edge.From}, nil
	}

	predecessors := e.search(to)

	route := domain.Path{edge.From}
	for current := from; current != to; {
		next := predecessors[current]
		if next == current {
			return nil, &domain.UnreachableError{From: edge.From, To: edge.To}
		}
		route = append(route, e.ids[next])
		current = next
	}
	return route, nil
}

// FindRoute resolves a multi-hop request by joining the shortest route of every
// consecutive pair of waypoints. The first failing segment aborts the search.
func (e *Engine) FindRoute(path domain.Path) (domain.Path, error) {
	if len(path) < 2 {
		return nil, zerr.With(zerr.Wrap(domain.ErrMalformedPath, "path needs at least two frames"), "path", path.String())
	}

	var route domain.Path
	for segment := range path.Edges() {
		part, err := e.FindPath(segment)
		if err != nil {
			return nil, err
		}
		if len(route) > 0 {
			// The junction frame closes the previous segment.
			part = part[1:]
		}
		route = append(route, part...)
	}
	return route, nil
}

// ComposePath multiplies the transformations along route so that the result maps
// coordinates in route[0] into route[len(route)-1].
func (e *Engine) ComposePath(route domain.Path) (domain.Matrix, error) {
	result := domain.Identity()
	for edge := range route.Edges() {
		m, ok := e.tensors[edge]
		if !ok {
			return domain.Matrix{}, zerr.With(
				zerr.Wrap(domain.ErrInternalConsistency, "route uses an edge without transformation"),
				"edge", edge.String(),
			)
		}
		result = m.Mul(result)
	}
	return result, nil
}

// search runs a breadth-first search rooted at root over unit-weight edges.
// Neighbours are expanded in ascending frame id order and a predecessor is fixed on
// first discovery, so equally short routes always resolve the same way.
// Unreached vertices are their own predecessor.
func (e *Engine) search(root int) []int {
	predecessors := make([]int, len(e.ids))
	for i := range predecessors {
		predecessors[i] = i
	}
	visited := make([]bool, len(e.ids))
	visited[root] = true

	queue := []int{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbour := range e.adj[current] {
			if visited[neighbour] {
				continue
			}
			visited[neighbour] = true
			predecessors[neighbour] = current
			queue = append(queue, neighbour)
		}
	}
	return predecessors
}

func (e *Engine) vertex(id int64) int {
	if index, ok := e.vertices[id]; ok {
		return index
	}
	index := len(e.ids)
	e.vertices[id] = index
	e.ids = append(e.ids, id)
	e.adj = append(e.adj, nil)
	return index
}

func (e *Engine) addEdge(edge domain.Edge) {
	a := e.vertex(edge.From)
	b := e.vertex(edge.To)
	e.adj[a] = e.insertNeighbour(e.adj[a], b)
	e.adj[b] = e.insertNeighbour(e.adj[b], a)
}

func (e *Engine) removeEdge(edge domain.Edge) {
	a, okA := e.vertices[edge.From]
	b, okB := e.vertices[edge.To]
	if !okA || !okB {
		return
	}
	e.adj[a] = e.deleteNeighbour(e.adj[a], b)
	e.adj[b] = e.deleteNeighbour(e.adj[b], a)
}

func (e *Engine) neighbourPosition(neighbours []int, index int) (int, bool) {
	return slices.BinarySearchFunc(neighbours, e.ids[index], func(n int, id int64) int {
		return cmp.Compare(e.ids[n], id)
	})
}

func (e *Engine) insertNeighbour(neighbours []int, index int) []int {
	pos, found := e.neighbourPosition(neighbours, index)
	if found {
		return neighbours
	}
	return slices.Insert(neighbours, pos, index)
}

func (e *Engine) deleteNeighbour(neighbours []int, index int) []int {
	pos, found := e.neighbourPosition(neighbours, index)
	if !found {
		return neighbours
	}
	return slices.Delete(neighbours, pos, pos+1)
}
