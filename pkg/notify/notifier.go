package notify

import (
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindPositionUnavailable Kind = "position_unavailable"
	KindOriginUnknown       Kind = "origin_unknown"
	KindNoDestinations      Kind = "no_destinations"
	KindNoRoute             Kind = "no_route"
	KindRequestFailed       Kind = "request_failed"
	KindRouteReady          Kind = "route_ready"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a one-shot, non-blocking message for the user.
type Notice struct {
	Kind    Kind      `json:"kind"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

func NewNotice(kind Kind, message string, cause error) Notice {
	n := Notice{
		Kind:    kind,
		Level:   LevelError,
		Message: message,
		Time:    time.Now(),
	}
	if kind == KindRouteReady {
		n.Level = LevelInfo
	}
	if cause != nil {
		n.Detail = cause.Error()
	}
	return n
}

// Notifier must not block the caller.
type Notifier interface {
	Notify(n Notice)
}

type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notice) {
	fields := []zap.Field{zap.String("kind", string(n.Kind)), zap.String("message", n.Message)}
	if n.Detail != "" {
		fields = append(fields, zap.String("detail", n.Detail))
	}
	if n.Level == LevelInfo {
		l.log.Info("notice", fields...)
		return
	}
	l.log.Warn("notice", fields...)
}

// Multi fans a notice out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}
