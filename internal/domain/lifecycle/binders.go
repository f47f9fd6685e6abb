package lifecycle

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

type subtreeBinder struct {
	handler SubtreeHandler
}

func (b subtreeBinder) bind(s *Service, conn Connection, path string, generation uint64) (Registration, error) {
	return conn.ExportSubtree(path, &guardedHandler{
		service:    s,
		handler:    b.handler,
		generation: generation,
	})
}

// guardedHandler refuses dispatches once its registration is gone, even if
// the transport still routes a call to it.
type guardedHandler struct {
	service    *Service
	handler    SubtreeHandler
	generation uint64
}

func (g *guardedHandler) Interfaces() []string {
	return g.handler.Interfaces()
}

func (g *guardedHandler) Dispatch(ctx context.Context, node, iface string) (provider.Skeleton, error) {
	if !g.service.current(g.generation) {
		return nil, ErrNotRegistered
	}
	return g.handler.Dispatch(ctx, node, iface)
}

type objectBinder struct {
	provider provider.Provider
}

func (b objectBinder) bind(_ *Service, conn Connection, path string, _ uint64) (Registration, error) {
	return conn.Export(path, b.provider.Skeleton())
}
