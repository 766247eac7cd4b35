// Package lifecycle arms the two background tasks that run after the engine
// has been launched: a one-shot removal of the working directory and a
// recurring heartbeat log line.
//
// The heartbeat is registered with robfig/cron as an "@every" schedule. The
// cleanup uses an injectable clock.Clock so its deadline can be tested
// without sleeping. Neither task blocks the caller.
package lifecycle
