// Package retention deletes audit records older than the configured number
// of days, on a cron schedule driven by github.com/robfig/cron/v3.
package retention
