package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher runs a reload callback on a cron schedule
type Refresher struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewRefresher registers refresh under schedule. Standard five-field specs
// and descriptors such as "@every 30s" are accepted.
func NewRefresher(schedule string, refresh func(), log *logrus.Logger) (*Refresher, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		log.Debug("Scheduled transaction refresh")
		refresh()
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule refresh %q: %w", schedule, err)
	}
	return &Refresher{cron: c, log: log}, nil
}

// Start begins running the schedule in the background
func (r *Refresher) Start() {
	r.log.Info("Starting scheduled refresh")
	r.cron.Start()
}

// Stop halts the schedule and returns a context done once a running
// refresh has finished
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}
