package broker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/frameconv/internal/adapters/logger"
	"go.trai.ch/frameconv/internal/core/ports"
)

// NodeID is the unique identifier for the hub Graft node.
const NodeID graft.ID = "adapter.broker"

func init() {
	graft.Register(graft.Node[*Hub]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Hub, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewHub(log), nil
		},
	})
}
