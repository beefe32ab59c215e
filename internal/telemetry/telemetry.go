// Package telemetry records page view events.
package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

type Service interface {
	LogViewEvent(name string)
}

// ZapService writes view events to a zap logger.
type ZapService struct {
	Logger *zap.Logger
}

func (s ZapService) LogViewEvent(name string) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info("view event", zap.String("event", "View"+name))
}

// NoOp discards events.
type NoOp struct{}

func (NoOp) LogViewEvent(string) {}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) LogViewEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
