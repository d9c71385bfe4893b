package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/KaiRo-at/weatherthing/internal/sensor"
)

// Prefetcher keeps the observation cache warm by refreshing it once per
// freshness window, so sensor ticks rarely pay for a cold fetch.
type Prefetcher struct {
	scheduler *gocron.Scheduler
	source    sensor.Source
	interval  time.Duration
	log       *logrus.Entry
}

func New(source sensor.Source, interval time.Duration, logger *logrus.Logger) *Prefetcher {
	s := gocron.NewScheduler(time.UTC)
	return &Prefetcher{
		scheduler: s,
		source:    source,
		interval:  interval,
		log:       logger.WithField("component", "prefetch"),
	}
}

// Start schedules the periodic refresh and starts the underlying
// scheduler.
func (p *Prefetcher) Start() error {
	_, err := p.scheduler.Every(p.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.interval)
		defer cancel()

		if _, err := p.source.GetLatest(ctx); err != nil {
			p.log.Warnf("cache refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	p.log.Infof("prefetching observations every %s", p.interval)
	return nil
}

// Stop stops the scheduler and cancels any future refreshes.
func (p *Prefetcher) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}
