// Package scheduler wires the cron job that fires the periodic import.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// frequency label -> cron spec
var specs = map[string]string{
	"hourly":     "@every 1h",
	"twicedaily": "@every 12h",
	"daily":      "@every 24h",
	"weekly":     "@every 168h",
}

// Spec maps a configured import frequency to a cron spec. "disabled" and ""
// return empty: no schedule.
func Spec(frequency string) (string, error) {
	if frequency == "" || frequency == "disabled" {
		return "", nil
	}
	s, ok := specs[frequency]
	if !ok {
		return "", fmt.Errorf("unknown import frequency %q", frequency)
	}
	return s, nil
}

type Scheduler struct {
	cron *cron.Cron
	spec string
	run  func()
}

// New builds a scheduler for the given frequency. A nil scheduler with a nil
// error means imports are disabled; Start/Stop on it are no-ops.
func New(frequency string, run func()) (*Scheduler, error) {
	spec, err := Spec(frequency)
	if err != nil {
		return nil, err
	}
	if spec == "" {
		return nil, nil
	}
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		run:  run,
	}, nil
}

// Start registers the job and runs one import immediately so a fresh install
// has data before the first tick.
func (s *Scheduler) Start() error {
	if s == nil {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Printf("[scheduler] started spec=%s", s.spec)

	go s.run()
	return nil
}

func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.cron.Stop()
	log.Printf("[scheduler] stopped")
}
