package cron

import (
	"testing"

	"github.com/robfig/cron/v3"
)

func FuzzCronSchedule(f *testing.F) {
	f.Add("0 3 * * *") // default snapshot schedule
	f.Add("*/5 * * * *")
	f.Add("0 0 * * *")
	f.Add("0 0 1 1 *")
	f.Add("* * * * *")
	f.Add("invalid")
	f.Add("")
	f.Add("60 * * * *")
	f.Add("0 25 * * *")

	f.Fuzz(func(_ *testing.T, expr string) {
		// Schedules come from user config; parsing must reject garbage
		// with an error, never a panic.
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		_, _ = parser.Parse(expr)
	})
}
