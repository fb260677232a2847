package rpc

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/frameconv/internal/core/ports"
)

// ConnectorNodeID is the unique identifier for the service connector Graft node.
const ConnectorNodeID graft.ID = "adapter.rpc.connector"

func init() {
	graft.Register(graft.Node[ports.ServiceConnector]{
		ID:        ConnectorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ServiceConnector, error) {
			return Connector{}, nil
		},
	})
}
