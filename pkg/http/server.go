package http

import (
	"context"

	http_router "github.com/lintang-b-s/routeplanner/pkg/http/router"
	"github.com/lintang-b-s/routeplanner/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/routeplanner/pkg/http/server"
	"github.com/lintang-b-s/routeplanner/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	Hub *controllers.Hub
}

func NewServer(log *zap.Logger, hub *controllers.Hub) *Server {
	return &Server{Log: log, Hub: hub}
}

func NewConfig(cfg util.APIConfig) http_server.Config {
	return http_server.Config{
		Port:          cfg.Port,
		Timeout:       cfg.Timeout,
		RateLimit:     cfg.RateLimit,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}
}

// Use starts the API on g. It stops when ctx is canceled.
func (s *Server) Use(
	ctx context.Context,
	g *errgroup.Group,
	config http_server.Config,
	plannerService controllers.PlannerService,
) *Server {
	server := http_router.NewAPI(s.Log, s.Hub)

	g.Go(func() error {
		return server.Run(ctx, config, plannerService)
	})

	return s
}
