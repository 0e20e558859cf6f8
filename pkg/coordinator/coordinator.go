package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/routeplanner/pkg/concurrent"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/lintang-b-s/routeplanner/pkg/notify"
	"github.com/lintang-b-s/routeplanner/pkg/overlay"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/lintang-b-s/routeplanner/pkg/waypoint"
	"go.uber.org/zap"
)

type State uint8

const (
	StateUninitialized State = iota
	StateTracking
	// StatePositionUnavailable is terminal: the map is never instantiated.
	StatePositionUnavailable
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTracking:
		return "tracking"
	case StatePositionUnavailable:
		return "position_unavailable"
	default:
		return "unknown"
	}
}

const (
	msgPositionUnavailable = "Geolocation permission denied."
	msgOriginUnknown       = "Current position is not known yet."
	msgNoDestinations      = "Select at least one destination!"
	msgNoRoute             = "No route found! Try placing markers on roads."
	msgRequestFailed       = "Failed to fetch route. Check your API key or selected locations."
	msgDrawFailed          = "Failed to draw route."
)

type PositionSource interface {
	CurrentPosition() (geo.Coordinate, bool)
}

type Options struct {
	// Map is the instantiation template; its Center is replaced by the first fix.
	Map              mapengine.Config
	OriginColor      string
	DestinationColor string
	// FollowPosition moves the origin marker on later fixes. Off keeps the first fix.
	FollowPosition bool
}

func DefaultOptions() Options {
	return Options{
		Map: mapengine.Config{
			Zoom:        12,
			ShowZoom:    true,
			ShowCompass: true,
		},
		OriginColor:      "blue",
		DestinationColor: "red",
	}
}

type Origin struct {
	Position geo.Coordinate
	Marker   mapengine.MarkerHandle
}

// Coordinator reacts to position fixes, map clicks and the compute/clear actions.
// Every method must run on the dispatcher's thread.
type Coordinator struct {
	log        *zap.Logger
	dispatcher concurrent.Dispatcher
	factory    mapengine.Factory
	positions  PositionSource
	store      *waypoint.Store
	client     routing.Client
	reconciler *overlay.Reconciler
	notifier   notify.Notifier
	opts       Options

	state  State
	engine mapengine.Engine
	origin *Origin
}

func New(log *zap.Logger, dispatcher concurrent.Dispatcher, factory mapengine.Factory, positions PositionSource,
	store *waypoint.Store, client routing.Client, reconciler *overlay.Reconciler, notifier notify.Notifier,
	opts Options) *Coordinator {
	return &Coordinator{
		log:        log,
		dispatcher: dispatcher,
		factory:    factory,
		positions:  positions,
		store:      store,
		client:     client,
		reconciler: reconciler,
		notifier:   notifier,
		opts:       opts,
		state:      StateUninitialized,
	}
}

func (c *Coordinator) OnPositionFix(p geo.Coordinate) {
	switch c.state {
	case StateUninitialized:
		if err := c.initialize(p); err != nil {
			c.log.Error("instantiating map", zap.Error(err))
		}
	case StateTracking:
		if c.opts.FollowPosition {
			c.moveOrigin(p)
		}
	default:
		c.log.Debug("ignoring position fix", zap.String("state", c.state.String()))
	}
}

func (c *Coordinator) initialize(p geo.Coordinate) error {
	cfg := c.opts.Map
	cfg.Center = p
	engine, err := c.factory.Instantiate(cfg)
	if err != nil {
		return err
	}

	marker, err := engine.AddMarker(p, c.opts.OriginColor)
	if err != nil {
		return fmt.Errorf("add origin marker: %w", err)
	}
	engine.OnClick(c.OnMapClick)

	c.engine = engine
	c.origin = &Origin{Position: p, Marker: marker}
	c.state = StateTracking
	c.log.Info("map instantiated", zap.Float64("lat", p.Lat), zap.Float64("lon", p.Lon))
	return nil
}

func (c *Coordinator) moveOrigin(p geo.Coordinate) {
	if err := c.engine.RemoveMarker(c.origin.Marker); err != nil {
		c.log.Warn("removing origin marker", zap.Error(err))
	}
	marker, err := c.engine.AddMarker(p, c.opts.OriginColor)
	if err != nil {
		c.log.Error("adding origin marker", zap.Error(err))
		return
	}
	c.origin = &Origin{Position: p, Marker: marker}
}

func (c *Coordinator) OnPositionUnavailable(err error) {
	if c.state != StateUninitialized {
		c.log.Warn("position lost after map instantiation", zap.Error(err))
		return
	}
	c.state = StatePositionUnavailable
	c.notifier.Notify(notify.NewNotice(notify.KindPositionUnavailable, msgPositionUnavailable, err))
}

// OnMapClick places a destination. Clicks before the map exists are ignored.
func (c *Coordinator) OnMapClick(p geo.Coordinate) {
	if c.state != StateTracking {
		c.log.Debug("ignoring click before map is ready", zap.String("state", c.state.String()))
		return
	}

	marker, err := c.engine.AddMarker(p, c.opts.DestinationColor)
	if err != nil {
		c.log.Error("adding destination marker", zap.Error(err))
		return
	}
	wp := c.store.Add(p)
	wp.SetMarker(marker)
	c.log.Debug("waypoint added", zap.String("id", string(wp.ID())), zap.Int("count", c.store.Count()))
}

// ComputeRoute validates the current state and, if valid, fetches a route off the
// event thread. The returned channel yields one error (nil on success) after the
// overlay has been reconciled. Validation failures make no network call.
func (c *Coordinator) ComputeRoute(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	var origin *geo.Coordinate
	if c.state == StateTracking {
		if pos, ok := c.positions.CurrentPosition(); ok {
			origin = &pos
		}
	}

	req, err := routing.BuildRequest(origin, c.store.Positions())
	if err != nil {
		c.notifyError(err)
		done <- err
		return done
	}

	go func() {
		result := c.client.FetchRoute(ctx, req)
		err := c.dispatcher.Post(func() {
			done <- c.applyRoute(result)
		})
		if err != nil {
			done <- err
		}
	}()
	return done
}

func (c *Coordinator) applyRoute(result routing.Result) error {
	err := c.reconciler.Apply(c.engine, result)
	if err == nil {
		c.notifier.Notify(notify.NewNotice(notify.KindRouteReady, routeReadyMessage(result.Summary()), nil))
		return nil
	}
	c.notifyError(err)
	return err
}

func (c *Coordinator) notifyError(err error) {
	var notice notify.Notice
	switch {
	case errors.Is(err, routing.ErrOriginUnknown):
		notice = notify.NewNotice(notify.KindOriginUnknown, msgOriginUnknown, nil)
	case errors.Is(err, routing.ErrNoDestinations):
		notice = notify.NewNotice(notify.KindNoDestinations, msgNoDestinations, nil)
	case errors.Is(err, routing.ErrNoRoute):
		notice = notify.NewNotice(notify.KindNoRoute, msgNoRoute, nil)
	case errors.Is(err, routing.ErrRequestFailed):
		notice = notify.NewNotice(notify.KindRequestFailed, msgRequestFailed, err)
	default:
		c.log.Error("reconciling route overlay", zap.Error(err))
		notice = notify.NewNotice(notify.KindRequestFailed, msgDrawFailed, err)
	}
	c.notifier.Notify(notice)
}

func routeReadyMessage(s routing.Summary) string {
	if s.LengthMeters == 0 && s.TravelTime == 0 {
		return "Route ready."
	}
	return fmt.Sprintf("Route ready: %.1f km, %d min.", float64(s.LengthMeters)/1000, int(s.TravelTime.Minutes()+0.5))
}

// Clear removes every destination marker and the route overlay.
func (c *Coordinator) Clear() error {
	removed := c.store.Clear()
	if c.engine == nil {
		return nil
	}

	var errs []error
	for _, wp := range removed {
		if err := c.engine.RemoveMarker(wp.Marker()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.reconciler.Remove(c.engine); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.log.Error("clearing map", zap.Error(err))
		return err
	}
	c.log.Debug("map cleared", zap.Int("waypoints", len(removed)))
	return nil
}

// CanComputeRoute is the enabled state of the compute action.
func (c *Coordinator) CanComputeRoute() bool {
	return c.store.Count() > 0
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Origin() *Origin {
	return c.origin
}

func (c *Coordinator) Waypoints() []*waypoint.Waypoint {
	return c.store.All()
}

func (c *Coordinator) Overlay() *overlay.RouteOverlay {
	return c.reconciler.Current()
}
