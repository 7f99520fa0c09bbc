package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerKind identifies how a task's next firing time is computed.
type TriggerKind string

const (
	TriggerInterval TriggerKind = "interval"
	TriggerDaily    TriggerKind = "daily-at-time"
	TriggerWeekly   TriggerKind = "weekly-at-time"
)

// Trigger is a rule determining when a task becomes due. All time-of-day
// math is done in UTC.
type Trigger struct {
	Kind    TriggerKind
	Every   time.Duration
	Hour    int
	Minute  int
	Weekday time.Weekday

	schedule cron.Schedule
}

// Interval creates a trigger that fires every d, measured from the last
// run (or from registration for the first firing).
func Interval(d time.Duration) (Trigger, error) {
	if d <= 0 {
		return Trigger{}, fmt.Errorf("interval must be positive, got %s", d)
	}
	return Trigger{Kind: TriggerInterval, Every: d}, nil
}

// DailyAt creates a trigger that fires every day at hour:minute UTC.
func DailyAt(hour, minute int) (Trigger, error) {
	sched, err := timeOfDaySchedule(hour, minute, "*")
	if err != nil {
		return Trigger{}, err
	}
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute, schedule: sched}, nil
}

// WeeklyAt creates a trigger that fires on the given weekday at
// hour:minute UTC.
func WeeklyAt(weekday time.Weekday, hour, minute int) (Trigger, error) {
	sched, err := timeOfDaySchedule(hour, minute, fmt.Sprintf("%d", int(weekday)))
	if err != nil {
		return Trigger{}, err
	}
	return Trigger{Kind: TriggerWeekly, Hour: hour, Minute: minute, Weekday: weekday, schedule: sched}, nil
}

// Next computes the next firing time strictly after now. lastRun is nil
// before the first execution.
func (t Trigger) Next(lastRun *time.Time, now time.Time) time.Time {
	if t.Kind == TriggerInterval {
		if lastRun != nil {
			return lastRun.Add(t.Every)
		}
		return now.Add(t.Every)
	}
	return t.schedule.Next(now.UTC())
}

func timeOfDaySchedule(hour, minute int, dow string) (cron.Schedule, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid minute %d", minute)
	}
	// CRON_TZ pins evaluation to UTC regardless of the host zone.
	spec := fmt.Sprintf("CRON_TZ=UTC %d %d * * %s", minute, hour, dow)
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return sched, nil
}
