package universe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/policy/internal/adapters/logger"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
)

// NodeID is the unique identifier for the universe source factory Graft node.
const NodeID graft.ID = "adapter.universe"

func init() {
	graft.Register(graft.Node[ports.UniverseSourceFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.UniverseSourceFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(domain.DefaultUniverseCachePath(), log), nil
		},
	})
}
