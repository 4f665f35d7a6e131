package remind

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// RunOpts holds parameters for the digest daemon.
type RunOpts struct {
	DB       *gorm.DB
	Notifier Notifier
	Schedule string         // 5-field cron expression
	Location *time.Location // zone for due-today boundaries; nil means local
}

// RunOnce builds the digest for now and delivers it. An empty digest is
// suppressed; the return value reports whether anything was sent.
func RunOnce(ctx context.Context, opts RunOpts) (bool, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	d, err := BuildDigest(opts.DB, time.Now().In(loc))
	if err != nil {
		return false, err
	}
	if d.Empty() {
		return false, nil
	}
	title, body := d.Format()
	if err := opts.Notifier.Send(ctx, title, body); err != nil {
		return false, err
	}
	return true, nil
}

// Run fires RunOnce on the configured cron schedule until ctx is cancelled.
// Delivery failures are logged and the loop keeps going; a transient chat
// outage must not kill the daemon.
func Run(ctx context.Context, opts RunOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("remind: db is required")
	}
	if opts.Notifier == nil {
		return fmt.Errorf("remind: notifier is required")
	}
	if _, err := cronParser.Parse(opts.Schedule); err != nil {
		return fmt.Errorf("remind: schedule %q: %w", opts.Schedule, err)
	}

	for {
		wait := nextCronDuration(opts.Schedule, time.Now())
		if wait == 0 {
			wait = time.Minute
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if _, err := RunOnce(ctx, opts); err != nil {
			log.Printf("remind: digest run: %v", err)
		}
	}
}
