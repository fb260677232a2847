package ports

import (
	"context"

	"go.trai.ch/frameconv/internal/core/domain"
)

//go:generate mockgen -source=frames.go -destination=mocks/mock_frames.go -package=mocks

// FrameService is the in-process entry point to the frame graph.
// Implementations serialise every call onto the goroutine that owns the graph.
type FrameService interface {
	// Lookup resolves path and composes the transformation along its route.
	Lookup(ctx context.Context, path domain.Path) (*Lookup, error)
	// Publish applies an update batch received on topic and returns the number
	// of transformations applied.
	Publish(ctx context.Context, topic string, tfs []domain.Transformation) (int, error)
	// Status returns a snapshot of the graph and the tracked paths.
	Status(ctx context.Context) (*domain.Status, error)
}
