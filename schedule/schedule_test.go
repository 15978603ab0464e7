package schedule_test

import (
	"github.com/marcsantiago/gocron"
	"github.com/orangeandblueleague/filefairy/schedule"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestDefinitionString(t *testing.T) {
	definitionToString := []struct {
		d              schedule.Definition
		friendlyString string
	}{
		{schedule.Definition{Interval: 1, Weekday: time.Monday.String(), AtTime: "10:00"}, "Every Monday at 10:00"},
		{schedule.Definition{Interval: 1, Weekday: time.Sunday.String(), AtTime: "04:00"}, "Every Sunday at 04:00"},
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, "Every second"},
		{schedule.Definition{Interval: 2, Unit: schedule.Seconds}, "Every 2 seconds"},
		{schedule.Definition{Interval: 1, Unit: schedule.Minutes}, "Every minute"},
		{schedule.Definition{Interval: 2, Unit: schedule.Hours}, "Every 2 hours"},
		{schedule.Definition{Interval: 2, Unit: schedule.Days, AtTime: "10:00"}, "Every 2 days at 10:00"},
		{schedule.Definition{Interval: 1, Unit: schedule.Weeks}, "Every week"},
		{schedule.Daily("06:30"), "Every day at 06:30"},
	}

	for _, testCase := range definitionToString {
		t.Run(testCase.friendlyString, func(t *testing.T) {
			assert.Equalf(t, testCase.friendlyString, testCase.d.String(), "Expected different string value for schedule definition: %v", testCase.d)
		})
	}
}

func TestNewJobFromDefinition(t *testing.T) {
	definitionToResult := []struct {
		d            schedule.Definition
		valid        bool
		errorMessage string
	}{
		{schedule.Definition{Interval: 1, Weekday: time.Monday.String(), AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Minutes}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Hours}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks, Weekday: time.Monday.String()}, true, ""}, // When we have a weekday, we ignore units so it's still valid
		{schedule.Daily("23:59"), true, ""},
		{schedule.Definition{Interval: 1, Unit: "fortnights"}, false, "Invalid schedule unit [fortnights]"},
	}

	scheduler := gocron.NewScheduler()
	for _, testCase := range definitionToResult {
		t.Run(testCase.d.String(), func(t *testing.T) {
			_, err := schedule.NewJob(scheduler, testCase.d)

			if testCase.valid {
				assert.Nilf(t, err, "Expected valid job to be created for schedule definition: %v", testCase.d)
			} else {
				if assert.NotNil(t, err) {
					assert.Contains(t, err.Error(), testCase.errorMessage)
				}
			}
		})
	}
}

func TestSchedulerAddStartStop(t *testing.T) {
	s := schedule.NewScheduler(time.UTC)

	err := s.Add(schedule.Daily("10:00"), func() {})
	assert.NoError(t, err)
	assert.False(t, s.NextRun().IsZero())

	s.Start()
	s.Stop()
}
