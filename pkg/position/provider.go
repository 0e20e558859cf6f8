package position

import (
	"errors"
	"sync"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
)

var (
	ErrPositionUnavailable = errors.New("geolocation permission denied or position unavailable")
	ErrAlreadySubscribed   = errors.New("position provider already has a subscriber")
	ErrNotSubscribed       = errors.New("position provider has no subscriber")
)

type FixFunc func(geo.Coordinate)

type ErrorFunc func(error)

type Subscription interface {
	Unsubscribe()
}

// Provider reports the device position asynchronously, zero or more times.
type Provider interface {
	Subscribe(onFix FixFunc, onError ErrorFunc) (Subscription, error)
}

// PushProvider is a Provider fed from outside, e.g. by a browser posting its
// geolocation fixes. It accepts a single subscriber. Safe for concurrent use.
type PushProvider struct {
	mu      sync.Mutex
	onFix   FixFunc
	onError ErrorFunc
}

func NewPushProvider() *PushProvider {
	return &PushProvider{}
}

func (p *PushProvider) Subscribe(onFix FixFunc, onError ErrorFunc) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onFix != nil {
		return nil, ErrAlreadySubscribed
	}
	p.onFix = onFix
	p.onError = onError
	return &pushSubscription{provider: p}, nil
}

func (p *PushProvider) PushFix(c geo.Coordinate) error {
	p.mu.Lock()
	onFix := p.onFix
	p.mu.Unlock()
	if onFix == nil {
		return ErrNotSubscribed
	}
	onFix(c)
	return nil
}

func (p *PushProvider) PushError(err error) error {
	p.mu.Lock()
	onError := p.onError
	p.mu.Unlock()
	if onError == nil {
		return ErrNotSubscribed
	}
	onError(err)
	return nil
}

type pushSubscription struct {
	provider *PushProvider
	once     sync.Once
}

func (s *pushSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.provider.mu.Lock()
		s.provider.onFix = nil
		s.provider.onError = nil
		s.provider.mu.Unlock()
	})
}
