// Package domain contains the core domain models for the frame conversion graph.
package domain

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Edge is a directed pair of frame ids.
// Edges are comparable, so equality and map keys are order-sensitive.
type Edge struct {
	From int64
	To   int64
}

// Inverted returns the edge with both endpoints swapped.
func (e Edge) Inverted() Edge {
	return Edge{From: e.To, To: e.From}
}

// Sorted returns the canonical undirected form of the edge, smaller id first.
func (e Edge) Sorted() Edge {
	if e.From <= e.To {
		return e
	}
	return e.Inverted()
}

// String returns the edge as "from->to".
func (e Edge) String() string {
	return strconv.FormatInt(e.From, 10) + "->" + strconv.FormatInt(e.To, 10)
}

// Path is an ordered sequence of frame ids.
// It is either a resolved route or a requested multi-hop path.
type Path []int64

// PathKey is the structural key of a Path, usable as a map key.
type PathKey string

// Key returns the dot-joined ids of the path.
func (p Path) Key() PathKey {
	return PathKey(p.join("."))
}

// String formats the path as "[1 2 3]".
func (p Path) String() string {
	return "[" + p.join(" ") + "]"
}

// Equal reports whether both paths visit the same frames in the same order.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Clone returns a copy of the path that does not share the backing array.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// Edge returns the edge between the first and last frame of the path.
func (p Path) Edge() Edge {
	if len(p) == 0 {
		return Edge{}
	}
	return Edge{From: p[0], To: p[len(p)-1]}
}

// Edges yields every consecutive pair of the path as a directed edge.
func (p Path) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for i := 1; i < len(p); i++ {
			if !yield(Edge{From: p[i-1], To: p[i]}) {
				return
			}
		}
	}
}

// Topic returns the publication topic of the path, e.g. "FrameTransformation.1.2.3".
func (p Path) Topic() string {
	return TopicPrefix + "." + p.join(".")
}

func (p Path) join(sep string) string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, sep)
}

// ParseTopic turns a topic such as "FrameTransformation.1.2" into a Path.
// The first segment is dropped and the remaining ones must be frame ids.
func ParseTopic(topic string) (Path, error) {
	segments := strings.Split(topic, ".")
	if len(segments) < 3 {
		return nil, zerr.With(zerr.Wrap(ErrMalformedTopic, "failed to parse topic"), "topic", topic)
	}
	path := make(Path, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(ErrMalformedTopic, "failed to parse topic"), "segment", segment)
		}
		path = append(path, id)
	}
	return path, nil
}

// ParseFrames parses frame ids given as decimal strings.
func ParseFrames(args []string) (Path, error) {
	path := make(Path, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(ErrMalformedPath, "invalid frame id"), "frame", arg)
		}
		path = append(path, id)
	}
	return path, nil
}
