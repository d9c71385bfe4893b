package sensor

import (
	"context"

	"github.com/KaiRo-at/weatherthing/internal/station"
)

// Field maps one published property to the station field feeding it.
type Field struct {
	// Property is the name the value is published under.
	Property string
	// SourceKey is the station field it is read from, e.g. "in_temp".
	SourceKey string
}

// Spec is the static configuration of one sensor. Immutable after
// construction.
type Spec struct {
	Location string
	Fields   []Field
}

// Source hands out the latest station observation. *station.Cache is
// the production implementation.
type Source interface {
	GetLatest(ctx context.Context) (station.Observation, error)
}

// Sink is the write side the updater publishes through. Implementations
// must tolerate concurrent reads of published values.
type Sink interface {
	Publish(property string, value float64)
	PublishUnknown(property string)
}
