package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/routeplanner/pkg/concurrent"
	"github.com/lintang-b-s/routeplanner/pkg/coordinator"
	routeplanner_http "github.com/lintang-b-s/routeplanner/pkg/http"
	"github.com/lintang-b-s/routeplanner/pkg/http/router/controllers"
	"github.com/lintang-b-s/routeplanner/pkg/http/usecases"
	"github.com/lintang-b-s/routeplanner/pkg/logger"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
	"github.com/lintang-b-s/routeplanner/pkg/notify"
	"github.com/lintang-b-s/routeplanner/pkg/overlay"
	"github.com/lintang-b-s/routeplanner/pkg/position"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/lintang-b-s/routeplanner/pkg/routing/gmaps"
	"github.com/lintang-b-s/routeplanner/pkg/routing/tomtom"
	"github.com/lintang-b-s/routeplanner/pkg/util"
	"github.com/lintang-b-s/routeplanner/pkg/waypoint"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	envFile = flag.String("env_file", ".env", "dotenv file holding the routing service credential")
)

func main() {
	flag.Parse()

	cfg, err := util.ReadConfig(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.NewWithConfig(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck // ignore

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("route planner stopped", zap.Error(err))
	}
	log.Info("route planner stopped")
}

func run(cfg *util.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.Routing.Timeout}

	client, err := newRoutingClient(cfg.Routing, httpClient, log)
	if err != nil {
		return err
	}

	loop := concurrent.NewEventLoop(cfg.Loop.QueueSize)
	provider := position.NewPushProvider()
	tracker := position.NewTracker(log, provider, loop)
	factory := memory.NewFactory()

	hub := controllers.NewHub(log)
	notifiers := notify.Multi{notify.NewLogNotifier(log), hub}
	if cfg.Notify.NtfyTopic != "" {
		notifiers = append(notifiers, notify.NewNtfyNotifier(log, nil, cfg.Notify.NtfyURL, cfg.Notify.NtfyTopic))
	}

	style := overlay.DefaultStyle()
	style.Color = cfg.Overlay.Color
	style.Width = cfg.Overlay.Width

	coord := coordinator.New(log, loop, factory, tracker, waypoint.NewStore(), client,
		overlay.NewReconciler(log, style), notifiers, coordinatorOptions(cfg))
	if err := tracker.Start(coord); err != nil {
		return err
	}
	defer tracker.Stop()

	plannerService := usecases.NewPlannerService(log, loop, provider, coord, factory)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})

	routeplanner_http.NewServer(log, hub).Use(ctx, g, routeplanner_http.NewConfig(cfg.API), plannerService)

	log.Info("route planner started",
		zap.String("provider", cfg.Routing.Provider),
		zap.String("travel_mode", cfg.Routing.TravelMode),
		zap.Int("port", cfg.API.Port))
	return g.Wait()
}

func newRoutingClient(cfg util.RoutingConfig, httpClient *http.Client, log *zap.Logger) (routing.Client, error) {
	switch cfg.Provider {
	case "google":
		return gmaps.NewClient(log, httpClient, cfg.BaseURL, cfg.APIKey, cfg.TravelMode)
	default:
		return tomtom.NewClient(log, httpClient, cfg.BaseURL, cfg.APIKey, cfg.TravelMode), nil
	}
}

func coordinatorOptions(cfg *util.Config) coordinator.Options {
	return coordinator.Options{
		Map: mapengine.Config{
			Zoom:        cfg.Map.Zoom,
			ShowZoom:    cfg.Map.ShowZoom,
			ShowCompass: cfg.Map.ShowCompass,
		},
		OriginColor:      cfg.Map.OriginColor,
		DestinationColor: cfg.Map.DestinationColor,
		FollowPosition:   cfg.Origin.FollowPosition,
	}
}
