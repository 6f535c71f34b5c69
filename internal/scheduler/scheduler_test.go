package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"SpecialsRadar/pkg/config"
)

func TestWeeklySpec(t *testing.T) {
	spec, err := WeeklySpec(config.ScheduleConfig{Day: "Wednesday", Hour: 0, Minute: 0})
	if err != nil {
		t.Fatalf("WeeklySpec returned error: %v", err)
	}
	if spec != "0 0 * * WED" {
		t.Errorf("unexpected spec %q", spec)
	}

	if _, err := WeeklySpec(config.ScheduleConfig{Day: "someday"}); err == nil {
		t.Error("expected error for unknown day")
	}
}

func TestWeeklySpecNextFire(t *testing.T) {
	spec, err := WeeklySpec(config.ScheduleConfig{Day: "wednesday", Hour: 0, Minute: 0})
	if err != nil {
		t.Fatalf("WeeklySpec returned error: %v", err)
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		t.Fatalf("spec does not parse: %v", err)
	}

	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	// A Monday afternoon; the next trigger must be Wednesday midnight.
	from := time.Date(2024, 7, 1, 15, 0, 0, 0, loc)
	next := sched.Next(from)
	if next.Weekday() != time.Wednesday || next.Hour() != 0 || next.Minute() != 0 {
		t.Errorf("unexpected next fire time %v", next)
	}
}

func TestNewRejectsBadTimezone(t *testing.T) {
	cfg := config.ScheduleConfig{Day: "wednesday", Timezone: "Mars/Olympus"}
	jobs := map[string]func(context.Context){"coles": func(context.Context) {}}
	if _, err := New(cfg, jobs); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	cfg := config.ScheduleConfig{Day: "wednesday", Timezone: "Australia/Sydney"}
	jobs := map[string]func(context.Context){
		"coles":      func(context.Context) {},
		"woolworths": func(context.Context) {},
	}
	s, err := New(cfg, jobs)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
