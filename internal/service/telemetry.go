package service

import (
	"log/slog"
	"time"

	"github.com/target/recipe-finder/internal/observability/statsd"
)

// Telemetry groups the optional ambient dependencies shared by services.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

func (t Telemetry) withDefaults(component string) Telemetry {
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	t.Logger = t.Logger.With("component", component)
	if t.Metrics == nil {
		t.Metrics = statsd.Noop{}
	}
	if t.Now == nil {
		t.Now = time.Now
	}
	return t
}
