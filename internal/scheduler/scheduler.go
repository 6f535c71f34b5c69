// Package scheduler triggers the weekly catalogue sync. Both retailers flip
// their specials at a fixed local time, so the schedule is a plain weekly
// cron entry in the configured timezone.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"SpecialsRadar/pkg/config"
)

// jobTimeout bounds one scheduled sync across every site.
const jobTimeout = 30 * time.Minute

var cronDays = map[string]string{
	"sunday":    "SUN",
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
}

// WeeklySpec renders the schedule config as a standard cron expression.
func WeeklySpec(cfg config.ScheduleConfig) (string, error) {
	day, ok := cronDays[strings.ToLower(cfg.Day)]
	if !ok {
		return "", fmt.Errorf("unknown schedule day %q", cfg.Day)
	}
	return fmt.Sprintf("%d %d * * %s", cfg.Minute, cfg.Hour, day), nil
}

// Scheduler runs one weekly sync entry per site. Entries are independent: a
// site whose run overlaps its next trigger skips that trigger without
// touching the others.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

// New registers one cron entry per named job but does not start ticking.
// Each job receives a context that expires after 30 minutes; failures are the
// job's own to log, the scheduler just keeps ticking.
func New(cfg config.ScheduleConfig, jobs map[string]func(ctx context.Context)) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	spec, err := WeeklySpec(cfg)
	if err != nil {
		return nil, err
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		name, job := name, jobs[name]
		if _, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			log.Printf("[%s] scheduled sync starting", name)
			job(ctx)
		}); err != nil {
			return nil, fmt.Errorf("add cron entry for %s: %w", name, err)
		}
	}

	log.Printf("weekly sync scheduled for %d site(s): %s (%s)", len(jobs), spec, cfg.Timezone)
	return &Scheduler{cron: c}, nil
}

// Start begins ticking. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
}

// Stop halts the ticker and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}
