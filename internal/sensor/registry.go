package sensor

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry owns the fixed set of sensor updaters for a deployment and
// coordinates their startup and orderly shutdown.
type Registry struct {
	updaters []*Updater
	log      *logrus.Entry
}

func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{
		log: logger.WithField("component", "registry"),
	}
}

// Add registers an updater. Not safe to call after Start.
func (r *Registry) Add(u *Updater) {
	r.updaters = append(r.updaters, u)
}

// Start launches every updater's loop and returns once all are
// launched; it does not wait for a first tick.
func (r *Registry) Start(ctx context.Context) {
	for _, u := range r.updaters {
		u.Start(ctx)
	}
	r.log.Infof("started %d sensor updaters", len(r.updaters))
}

// StopAll cancels every updater in parallel and returns once all of
// them have confirmed they stopped.
func (r *Registry) StopAll() {
	var wg sync.WaitGroup
	for _, u := range r.updaters {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Stop()
		}()
	}
	wg.Wait()
	r.log.Info("all sensor updaters stopped")
}
