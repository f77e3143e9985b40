package main

import "fmt"

// RemindCmd sends the daily reminder, meant to be run from cron or a
// systemd timer.
type RemindCmd struct{}

func (c *RemindCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}

	d := ctx.Dispatcher()
	msg, ok, err := d.Reminder(s.Len(), s.RemainingToday())
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	if !ok {
		fmt.Fprintln(ctx.Out, "All habits done today! 🎉")
		return nil
	}

	fmt.Fprintf(ctx.Out, "%s\n%s\n", msg.Title, msg.Body)
	if !d.Enabled() {
		fmt.Fprintln(ctx.Out, "(desktop notifications are disabled or unsupported)")
	}
	return nil
}
