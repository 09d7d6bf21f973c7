// Package metrics names the counters and timings the application emits.
package metrics

import (
	"time"

	obserrors "github.com/target/recipe-finder/internal/observability/errors"
	"github.com/target/recipe-finder/internal/observability/statsd"
)

// Result tag values.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultEmpty    = "empty"
	ResultError    = "error"
)

// Metric names.
const (
	SignupCount          = "auth.signup"
	LoginCount           = "auth.login"
	SearchCount          = "recipes.search"
	SearchDuration       = "recipes.search.duration"
	SessionsActiveGauge  = "sessions.active"
	SessionsSweptCounter = "sessions.swept"
)

// Outcome is one instrumented operation.
type Outcome struct {
	Result   string
	Duration time.Duration
	Err      error
}

func (o Outcome) tags() map[string]string {
	tags := map[string]string{"result": o.Result}
	if o.Err != nil && o.Result == ResultError {
		if class := obserrors.Classify(o.Err); class != "" {
			tags["error_type"] = class
		}
	}
	return tags
}

// Emit counts the outcome under name and, when a duration is set, records it
// under durationName with the same tags.
func Emit(sink statsd.Sink, name, durationName string, o Outcome) {
	if sink == nil {
		return
	}
	tags := o.tags()
	sink.Count(name, 1, tags)
	if durationName != "" && o.Duration > 0 {
		sink.Timing(durationName, o.Duration, cloneTags(tags))
	}
}

func cloneTags(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
