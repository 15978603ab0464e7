package filefairy

import (
	"context"
	"time"
)

// Start registers the status plugin, connects and runs the setup handlers without starting the
// dispatch loop
func (ff *Filefairy) Start(ctx context.Context) error {
	return ff.start(ctx)
}

// Tick dispatches a tick synchronously
func (ff *Filefairy) Tick(now time.Time) {
	ff.handle(ff.ctx, event{kind: tickEvent, at: now})
}

// Dispatch dispatches a message synchronously
func (ff *Filefairy) Dispatch(m Message) {
	ff.handle(ff.ctx, event{kind: messageEvent, msg: m, at: time.Now()})
}

// DailyNotify broadcasts the daily notification synchronously
func (ff *Filefairy) DailyNotify() {
	ff.handle(ff.ctx, event{kind: dailyEvent, at: time.Now()})
}

// WaitForPublishing waits for background publishing to finish
func (ff *Filefairy) WaitForPublishing() {
	ff.publishing.Wait()
}
