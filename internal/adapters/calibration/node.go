package calibration

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/frameconv/internal/adapters/logger"
	"go.trai.ch/frameconv/internal/core/ports"
)

// NodeID is the unique identifier for the calibration store Graft node.
const NodeID graft.ID = "adapter.calibration"

func init() {
	graft.Register(graft.Node[ports.CalibrationStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CalibrationStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(log), nil
		},
	})
}
