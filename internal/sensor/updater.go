package sensor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KaiRo-at/weatherthing/internal/observability"
)

// DefaultInterval is the default time between sensor updates.
const DefaultInterval = 3 * time.Second

// Updater periodically pulls the latest observation from its Source and
// publishes the configured fields to its Sink. Upstream failures never
// stop the loop; only Stop does.
type Updater struct {
	spec     Spec
	interval time.Duration
	source   Source
	sink     Sink
	log      *logrus.Entry
	metrics  *observability.Metrics

	cancel context.CancelFunc
	done   chan struct{}
}

func NewUpdater(spec Spec, interval time.Duration, source Source, sink Sink, logger *logrus.Logger, metrics *observability.Metrics) *Updater {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Updater{
		spec:     spec,
		interval: interval,
		source:   source,
		sink:     sink,
		log:      logger.WithField("sensor", spec.Location),
		metrics:  metrics,
	}
}

// Start launches the update loop. It returns immediately; the first
// update happens one interval after launch.
func (u *Updater) Start(ctx context.Context) {
	ctx, u.cancel = context.WithCancel(ctx)
	u.done = make(chan struct{})
	u.log.Debug("starting sensor update loop")
	go u.run(ctx)
}

// Stop cancels the loop and blocks until it has fully exited. No sink
// write happens after Stop returns.
func (u *Updater) Stop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	<-u.done
}

func (u *Updater) run(ctx context.Context) {
	defer close(u.done)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.log.Debug("sensor update loop stopped")
			return
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

// tick performs exactly one GetLatest call and one publish per field.
func (u *Updater) tick(ctx context.Context) {
	obs, err := u.source.GetLatest(ctx)
	if err != nil {
		// Mark every field unknown rather than leaving a stale display
		// value silently un-marked.
		u.log.Warnf("no observation available: %v", err)
		for _, f := range u.spec.Fields {
			u.sink.PublishUnknown(f.Property)
			u.metrics.UnknownPublished()
		}
		return
	}

	for _, f := range u.spec.Fields {
		v, ok := obs.Field(f.SourceKey)
		if !ok {
			u.log.Warnf("field %s missing from observation", f.SourceKey)
			u.sink.PublishUnknown(f.Property)
			u.metrics.UnknownPublished()
			continue
		}
		u.log.Debugf("setting %s to %v", f.Property, v)
		u.sink.Publish(f.Property, v)
		u.metrics.ValuePublished()
	}
}
