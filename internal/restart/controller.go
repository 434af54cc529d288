// Package restart restarts systemd units with an escalating recovery sequence.
package restart

import (
	"fmt"
	"time"

	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/system"
)

// DefaultRetryPause is how long the controller waits before the final attempt.
const DefaultRetryPause = 10 * time.Second

// Stage identifies which attempt of the sequence produced the final result.
type Stage int

const (
	StageFirstAttempt Stage = iota + 1
	StageAfterReset
	StageAfterPause
)

func (s Stage) String() string {
	switch s {
	case StageFirstAttempt:
		return "first attempt"
	case StageAfterReset:
		return "after reset-failed"
	case StageAfterPause:
		return "after pause"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Result describes one run of the restart sequence.
type Result struct {
	Unit     string
	Success  bool
	ExitCode int
	Attempts int
	Stage    Stage
	// ResetExitCode is the reset-failed exit status; only meaningful when Attempts > 1.
	ResetExitCode int
}

// Controller restarts units: restart, then reset-failed and restart, then
// pause and restart once more. Only the last attempt decides the outcome.
type Controller struct {
	cmd        system.Commander
	log        *logging.Logger
	sleep      system.Sleeper
	retryPause time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithRetryPause overrides DefaultRetryPause.
func WithRetryPause(d time.Duration) Option {
	return func(c *Controller) {
		c.retryPause = d
	}
}

// WithSleeper replaces time.Sleep for the pause.
func WithSleeper(s system.Sleeper) Option {
	return func(c *Controller) {
		if s != nil {
			c.sleep = s
		}
	}
}

// NewController creates a Controller issuing commands through cmd.
func NewController(cmd system.Commander, log *logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		cmd:        cmd,
		log:        log,
		sleep:      time.Sleep,
		retryPause: DefaultRetryPause,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RestartService restarts name and reports whether the last attempt succeeded.
func (c *Controller) RestartService(name string) bool {
	return c.Restart(name).Success
}

// Restart runs the full sequence for name and returns its trail.
func (c *Controller) Restart(name string) *Result {
	result := &Result{Unit: name, Stage: StageFirstAttempt, Attempts: 1}
	console := c.log.Verbose()

	rc := c.cmd.Restart(name)
	if rc != 0 {
		// Most often the unit hit its start limit.
		result.ResetExitCode = c.cmd.ResetFailed(name)
		c.log.Logf(logging.PriorityError, console,
			"Service %s has been reset. rc=%d; Try restart again...", name, result.ResetExitCode)

		result.Stage = StageAfterReset
		result.Attempts++
		rc = c.cmd.Restart(name)
		if rc != 0 {
			c.log.Logf(logging.PriorityError, console,
				"Restart failed for %s rc=%d after reset; Pause for %v & retry", name, rc, c.retryPause)
			c.sleep(c.retryPause)

			result.Stage = StageAfterPause
			result.Attempts++
			rc = c.cmd.Restart(name)
		}
	}

	result.ExitCode = rc
	result.Success = rc == 0
	c.logResult(result, console)
	return result
}

func (c *Controller) logResult(result *Result, console bool) {
	if result.Success {
		c.log.Logf(logging.PriorityNotice, console,
			"Restart succeeded for %s (%s)", result.Unit, result.Stage)
		return
	}
	c.log.Logf(logging.PriorityError, console,
		"Restart failed for %s rc=%d", result.Unit, result.ExitCode)
}
