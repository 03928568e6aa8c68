package hub

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dsget/internal/adapters/logger"
	"go.trai.ch/dsget/internal/adapters/telemetry/progrock"
	"go.trai.ch/dsget/internal/core/ports"
)

// NodeID is the unique identifier for the downloader factory Graft node.
const NodeID graft.ID = "adapter.downloader_factory"

func init() {
	graft.Register(graft.Node[ports.DownloaderFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, progrock.NodeID},
		Run: func(ctx context.Context) (ports.DownloaderFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log, tel), nil
		},
	})
}
