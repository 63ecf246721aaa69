package token

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/montauk/internal/core/ports"
)

// NodeID is the unique identifier for the anti-forgery token source Graft node.
const NodeID graft.ID = "adapter.token"

func init() {
	graft.Register(graft.Node[ports.TokenSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TokenSource, error) {
			return NewSource(), nil
		},
	})
}
