package position

import (
	"fmt"

	"github.com/lintang-b-s/routeplanner/pkg/concurrent"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"go.uber.org/zap"
)

// Listener receives tracker events on the dispatcher's thread.
type Listener interface {
	OnPositionFix(c geo.Coordinate)
	OnPositionUnavailable(err error)
}

// Tracker keeps the latest position reported by a Provider. Provider callbacks are
// re-posted to the dispatcher so state is only touched on the event thread.
type Tracker struct {
	log        *zap.Logger
	provider   Provider
	dispatcher concurrent.Dispatcher
	listener   Listener

	latest      geo.Coordinate
	known       bool
	unavailable bool
	sub         Subscription
}

func NewTracker(log *zap.Logger, provider Provider, dispatcher concurrent.Dispatcher) *Tracker {
	return &Tracker{
		log:        log,
		provider:   provider,
		dispatcher: dispatcher,
	}
}

// Start subscribes to the provider once. The tracker does not retry on its own.
func (t *Tracker) Start(listener Listener) error {
	if t.sub != nil {
		return fmt.Errorf("position tracker already started")
	}
	t.listener = listener

	sub, err := t.provider.Subscribe(
		func(c geo.Coordinate) {
			t.post(func() { t.handleFix(c) })
		},
		func(err error) {
			t.post(func() { t.handleError(err) })
		},
	)
	if err != nil {
		return fmt.Errorf("subscribe to position provider: %w", err)
	}
	t.sub = sub
	return nil
}

func (t *Tracker) Stop() {
	if t.sub != nil {
		t.sub.Unsubscribe()
	}
}

func (t *Tracker) post(job concurrent.JobFunc) {
	if err := t.dispatcher.Post(job); err != nil {
		t.log.Warn("dropping position event", zap.Error(err))
	}
}

func (t *Tracker) handleFix(c geo.Coordinate) {
	t.latest = c
	t.known = true
	t.log.Debug("position fix", zap.Float64("lat", c.Lat), zap.Float64("lon", c.Lon))
	if t.listener != nil {
		t.listener.OnPositionFix(c)
	}
}

// handleError reports the first failure only.
func (t *Tracker) handleError(err error) {
	if t.unavailable {
		return
	}
	t.unavailable = true
	t.log.Warn("position unavailable", zap.Error(err))
	if t.listener != nil {
		t.listener.OnPositionUnavailable(fmt.Errorf("%w: %v", ErrPositionUnavailable, err))
	}
}

// CurrentPosition returns the latest fix, if any.
func (t *Tracker) CurrentPosition() (geo.Coordinate, bool) {
	return t.latest, t.known
}
