package ports

import (
	"context"

	"go.trai.ch/frameconv/internal/core/domain"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher delivers composed transformations to the consumers of a topic.
type Publisher interface {
	// Publish sends tf to every consumer bound to topic.
	Publish(ctx context.Context, topic string, tf domain.Transformation) error
	// SendTo sends tf to a single consumer.
	SendTo(ctx context.Context, consumer string, tf domain.Transformation) error
}
