package includes

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
)

// NodeID is the unique identifier for the included policy factory Graft node.
const NodeID graft.ID = "adapter.includes"

func init() {
	graft.Register(graft.Node[ports.IncludedPolicyFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IncludedPolicyFactory, error) {
			return NewFactory(domain.DefaultIncludesCachePath()), nil
		},
	})
}
