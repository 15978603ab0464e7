// Package schedule wraps gocron to run engine jobs (i.e. the daily notification) on a
// human-friendly schedule definition
package schedule

import (
	"fmt"
	"github.com/marcsantiago/gocron"
	"strings"
	"time"
)

// Definition represents when a job runs
type Definition struct {
	// Interval value (every 1 minute would be expressed with an interval of 1). A weekday value implicitly sets the interval to 1
	Interval uint64

	// Valid time units are: "weeks", "hours", "days", "minutes", "seconds". Ignored when Weekday is set
	Unit string

	// Optional day of the week
	Weekday string

	// Optional "at time" value (i.e. "10:30")
	AtTime string
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

var weekdays = map[string]func(j *gocron.Job) *gocron.Job{
	time.Monday.String():    (*gocron.Job).Monday,
	time.Tuesday.String():   (*gocron.Job).Tuesday,
	time.Wednesday.String(): (*gocron.Job).Wednesday,
	time.Thursday.String():  (*gocron.Job).Thursday,
	time.Friday.String():    (*gocron.Job).Friday,
	time.Saturday.String():  (*gocron.Job).Saturday,
	time.Sunday.String():    (*gocron.Job).Sunday,
}

var units = map[string]func(j *gocron.Job) *gocron.Job{
	Weeks:   (*gocron.Job).Weeks,
	Hours:   (*gocron.Job).Hours,
	Days:    (*gocron.Job).Days,
	Minutes: (*gocron.Job).Minutes,
	Seconds: (*gocron.Job).Seconds,
}

// Daily returns the definition of a job running every day at the given time
func Daily(atTime string) Definition {
	return Definition{Interval: 1, Unit: Days, AtTime: atTime}
}

// String returns a human-friendly string for the Definition
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if d.Weekday != "" {
		fmt.Fprintf(&b, "%s", d.Weekday)
	} else if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}

	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}

	return b.String()
}

// NewJob sets up the gocron.Job with the schedule and leaves the task undefined for the caller to set up
func NewJob(s *gocron.Scheduler, d Definition) (j *gocron.Job, err error) {
	j = s.Every(d.Interval, false)

	if weekday, ok := weekdays[d.Weekday]; ok {
		j = weekday(j)
	} else if unit, ok := units[d.Unit]; ok {
		j = unit(j)
	} else {
		return nil, fmt.Errorf("Invalid schedule unit [%s]", d.Unit)
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}

// Scheduler runs jobs in its own goroutine until stopped
type Scheduler struct {
	sc      *gocron.Scheduler
	stopped chan bool
}

// NewScheduler creates a scheduler evaluating "at times" in the given location
func NewScheduler(timeLoc *time.Location) (s *Scheduler) {
	gocron.ChangeLoc(timeLoc)

	s = new(Scheduler)
	s.sc = gocron.NewScheduler()

	return s
}

// Add registers task to run on the definition's schedule
func (s *Scheduler) Add(d Definition, task func()) (err error) {
	j, err := NewJob(s.sc, d)
	if err != nil {
		return err
	}

	j.Do(task)
	return nil
}

// NextRun returns the time of the next job run
func (s *Scheduler) NextRun() (t time.Time) {
	_, t = s.sc.NextRun()
	return t
}

// Start starts running jobs. It doesn't block
func (s *Scheduler) Start() {
	s.stopped = s.sc.Start()
}

// Stop stops the scheduler and clears all its jobs
func (s *Scheduler) Stop() {
	if s.stopped != nil {
		s.stopped <- true
		s.stopped = nil
	}

	s.sc.Clear()
}
