package ports

import (
	"context"
	"iter"

	"go.trai.ch/frameconv/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Lookup is the answer to a direct lookup request.
type Lookup struct {
	Route          domain.Path
	Transformation domain.Transformation
}

// ServiceClient defines the interface for talking to a running frameconv service.
type ServiceClient interface {
	// Lookup resolves path and returns the composed transformation.
	Lookup(ctx context.Context, path domain.Path) (*Lookup, error)

	// Publish sends a batch of transformations as if it came from topic.
	// It returns the number of transformations applied.
	Publish(ctx context.Context, topic string, tfs []domain.Transformation) (int, error)

	// Subscribe binds a consumer to path and yields every composed transformation
	// until ctx is cancelled or the stream fails.
	Subscribe(ctx context.Context, path domain.Path) (iter.Seq2[domain.Transformation, error], error)

	// Calibrations returns the calibrations with the given ids.
	Calibrations(ctx context.Context, ids []int64) ([]domain.Calibration, error)

	// Status returns the current service status.
	Status(ctx context.Context) (*domain.Status, error)

	// Close releases client resources.
	Close() error
}

// ServiceConnector opens clients to the service listening on a socket.
type ServiceConnector interface {
	// Connect returns a client to the service at socketPath.
	Connect(ctx context.Context, socketPath string) (ServiceClient, error)
}
