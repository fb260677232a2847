// Package tracker keeps composed transformations of requested paths up to date.
//
// Every requested path is either resolved, with a cached route and a back-pointer
// from each edge of that route, or unresolved and retried on every graph mutation.
// An edge update only recomputes the paths whose route uses the edge.
package tracker

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/frameconv/internal/engine/graph"
	"go.trai.ch/zerr"
)

// UpdateFunc is invoked once for every path whose composed transformation changed.
type UpdateFunc func(path domain.Path, tf domain.Transformation)

type dependency struct {
	path  domain.Path
	route domain.Path
}

// Tracker indexes requested paths by the edges of their routes.
// The engine is borrowed and must outlive the tracker. Like the engine, the
// tracker is driven by a single goroutine.
type Tracker struct {
	conversions *graph.Engine
	logger      ports.Logger

	direct     map[domain.PathKey]dependency
	reverse    map[domain.Edge]map[domain.PathKey]domain.Path
	unresolved map[domain.PathKey]domain.Path
}

// New creates a Tracker over conversions.
func New(conversions *graph.Engine, logger ports.Logger) *Tracker {
	return &Tracker{
		conversions: conversions,
		logger:      logger,
		direct:      make(map[domain.PathKey]dependency),
		reverse:     make(map[domain.Edge]map[domain.PathKey]domain.Path),
		unresolved:  make(map[domain.PathKey]domain.Path),
	}
}

// UpdateDependency resolves path and starts tracking it.
// The boolean is false when the path cannot be resolved yet; it is then parked
// as unresolved. An error is only returned for internal consistency violations.
func (t *Tracker) UpdateDependency(path domain.Path) (domain.Transformation, bool, error) {
	key := path.Key()
	old, hadRoute := t.direct[key]

	route, err := t.conversions.FindRoute(path)
	if err != nil {
		if hadRoute {
			t.logger.Info(fmt.Sprintf("event=Dependency.BecameUnreachable path=%s reason=%q", path, err.Error()))
			if err := t.removeResolved(key, old); err != nil {
				return domain.Transformation{}, false, err
			}
		}
		if _, parked := t.unresolved[key]; !parked {
			t.unresolved[key] = path.Clone()
			t.logger.Info(fmt.Sprintf("event=Dependency.AddUnresolved path=%s reason=%q", path, err.Error()))
		}
		return domain.Transformation{}, false, nil
	}

	switch {
	case !hadRoute:
		t.logger.Info(fmt.Sprintf("event=Dependency.Resolved path=%s route=%s", path, route))
		t.addResolved(key, path, route)
	case !old.route.Equal(route):
		t.logger.Info(fmt.Sprintf("event=Dependency.NewRoute path=%s route=%s", path, route))
		if err := t.removeResolved(key, old); err != nil {
			return domain.Transformation{}, false, err
		}
		t.addResolved(key, path, route)
	}
	delete(t.unresolved, key)

	m, err := t.conversions.ComposePath(route)
	if err != nil {
		return domain.Transformation{}, false, zerr.With(err, "path", path.String())
	}
	return domain.Transformation{From: path[0], To: path[len(path)-1], Matrix: m}, true, nil
}

// RemoveDependency stops tracking path. Removing an untracked path is a no-op.
func (t *Tracker) RemoveDependency(path domain.Path) error {
	key := path.Key()
	if dep, ok := t.direct[key]; ok {
		return t.removeResolved(key, dep)
	}
	delete(t.unresolved, key)
	return nil
}

// InvalidateEdge moves every path whose route uses edge back to unresolved and
// drops the reverse entry of the edge. It must run before the edge's
// transformation is removed from the graph.
func (t *Tracker) InvalidateEdge(edge domain.Edge) error {
	canonical := edge.Sorted()
	for _, path := range sortedPaths(t.reverse[canonical]) {
		key := path.Key()
		dep, ok := t.direct[key]
		if !ok {
			return zerr.With(
				zerr.Wrap(domain.ErrInternalConsistency, "reverse index points to an untracked path"),
				"path", path.String(),
			)
		}
		t.logger.Info(fmt.Sprintf("event=Dependency.BecameUnreachable path=%s edge=%s", path, canonical))
		if err := t.removeResolved(key, dep); err != nil {
			return err
		}
		t.unresolved[key] = dep.path
	}
	delete(t.reverse, canonical)
	return nil
}

// Update applies tf to the graph and recomputes the affected paths.
// onUpdate is first called for paths whose route uses the changed edge, then for
// previously unresolved paths that became resolvable.
func (t *Tracker) Update(tf domain.Transformation, onUpdate UpdateFunc) error {
	if ok := t.conversions.UpdateTransformation(tf); !ok {
		t.logger.Warn(fmt.Sprintf("event=Graph.SingularTransformation edge=%s", tf.Edge()))
	}

	// Snapshot: recomputation rewrites the index while we iterate.
	for _, path := range sortedPaths(t.reverse[tf.Edge().Sorted()]) {
		composed, ok, err := t.UpdateDependency(path)
		if err != nil {
			return err
		}
		if ok && onUpdate != nil {
			onUpdate(path, composed)
		}
	}

	for _, path := range sortedPaths(t.unresolved) {
		composed, ok, err := t.UpdateDependency(path)
		if err != nil {
			return err
		}
		if ok && onUpdate != nil {
			onUpdate(path, composed)
		}
	}
	return nil
}

// Route returns the cached route of path.
func (t *Tracker) Route(path domain.Path) (domain.Path, bool) {
	dep, ok := t.direct[path.Key()]
	if !ok {
		return nil, false
	}
	return dep.route.Clone(), true
}

// IsUnresolved reports whether path is parked waiting for a route.
func (t *Tracker) IsUnresolved(path domain.Path) bool {
	_, ok := t.unresolved[path.Key()]
	return ok
}

// Dependents returns the paths whose route uses edge, in either direction.
func (t *Tracker) Dependents(edge domain.Edge) []domain.Path {
	return sortedPaths(t.reverse[edge.Sorted()])
}

// Tracked returns every tracked path, resolved ones with their route, ordered by key.
func (t *Tracker) Tracked() []domain.TrackedPath {
	tracked := make([]domain.TrackedPath, 0, len(t.direct)+len(t.unresolved))
	for _, dep := range t.direct {
		tracked = append(tracked, domain.TrackedPath{
			Path:     dep.path.Clone(),
			Route:    dep.route.Clone(),
			Resolved: true,
		})
	}
	for _, path := range t.unresolved {
		tracked = append(tracked, domain.TrackedPath{Path: path.Clone()})
	}
	slices.SortFunc(tracked, func(a, b domain.TrackedPath) int {
		return cmp.Compare(a.Path.Key(), b.Path.Key())
	})
	return tracked
}

func (t *Tracker) addResolved(key domain.PathKey, path, route domain.Path) {
	path = path.Clone()
	t.direct[key] = dependency{path: path, route: route}
	for edge := range route.Edges() {
		canonical := edge.Sorted()
		dependents, ok := t.reverse[canonical]
		if !ok {
			dependents = make(map[domain.PathKey]domain.Path)
			t.reverse[canonical] = dependents
		}
		dependents[key] = path
	}
}

func (t *Tracker) removeResolved(key domain.PathKey, dep dependency) error {
	// A route may cross the same undirected edge twice, e.g. [1 2 1].
	seen := make(map[domain.Edge]struct{})
	for edge := range dep.route.Edges() {
		canonical := edge.Sorted()
		if _, done := seen[canonical]; done {
			continue
		}
		seen[canonical] = struct{}{}
		dependents, ok := t.reverse[canonical]
		if !ok {
			return zerr.With(
				zerr.With(
					zerr.Wrap(domain.ErrInternalConsistency, "route edge missing from reverse index"),
					"edge", canonical.String(),
				),
				"path", dep.path.String(),
			)
		}
		delete(dependents, key)
		if len(dependents) == 0 {
			delete(t.reverse, canonical)
		}
	}
	delete(t.direct, key)
	return nil
}

func sortedPaths(set map[domain.PathKey]domain.Path) []domain.Path {
	keys := slices.Sorted(maps.Keys(set))
	paths := make([]domain.Path, len(keys))
	for i, key := range keys {
		paths[i] = set[key]
	}
	return paths
}
