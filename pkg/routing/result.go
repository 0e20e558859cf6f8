package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/util"
)

var (
	ErrNoRoute       = errors.New("no route found")
	ErrRequestFailed = errors.New("route request failed")
)

type Status uint8

const (
	StatusSuccess Status = iota
	StatusNoRoute
	StatusRequestFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNoRoute:
		return "no_route"
	case StatusRequestFailed:
		return "request_failed"
	default:
		return "unknown"
	}
}

// Summary is what the service reports about the route besides its geometry.
// Zero values mean the service did not report them.
type Summary struct {
	LengthMeters int
	TravelTime   time.Duration
}

// Result is the outcome of one routing call.
type Result struct {
	status  Status
	path    []geo.Coordinate
	summary Summary
	cause   error
}

func NewSuccessResult(path []geo.Coordinate, summary Summary) Result {
	return Result{status: StatusSuccess, path: path, summary: summary}
}

func NewNoRouteResult() Result {
	return Result{status: StatusNoRoute}
}

func NewRequestFailedResult(cause error) Result {
	if cause == nil {
		cause = errors.New("unknown cause")
	}
	return Result{status: StatusRequestFailed, cause: cause}
}

func (r Result) Status() Status {
	return r.status
}

func (r Result) Path() []geo.Coordinate {
	return r.path
}

func (r Result) Summary() Summary {
	return r.summary
}

// Cause is the transport or parse error of a failed request.
func (r Result) Cause() error {
	return r.cause
}

// Err is nil on success. Otherwise it matches ErrNoRoute or ErrRequestFailed (and
// the cause) with errors.Is.
func (r Result) Err() error {
	switch r.status {
	case StatusSuccess:
		return nil
	case StatusNoRoute:
		return util.WrapErrorf(ErrNoRoute, util.ErrNotFound, "%s", ErrNoRoute.Error())
	default:
		return util.WrapErrorf(fmt.Errorf("%w: %w", ErrRequestFailed, r.cause), util.ErrUpstream,
			"%s: %v", ErrRequestFailed.Error(), r.cause)
	}
}

// Client fetches one route per call. Implementations do not retry.
type Client interface {
	FetchRoute(ctx context.Context, req *Request) Result
}
