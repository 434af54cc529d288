// Package system wraps the host commands the validators depend on: the
// systemd service manager and the kernel neighbor table.
package system

import (
	"strings"
	"time"

	"github.com/jerkytreats/servicevalidator/internal/logging"
)

const (
	DefaultSystemctlPath = "systemctl"
	DefaultIPPath        = "ip"
)

// Commander issues corrective commands against the host. Every method returns
// the command's exit status; 0 means success.
type Commander interface {
	Restart(unit string) int
	ResetFailed(units ...string) int
	FlushNeighbor(iface, ip string) int
}

// Sleeper blocks the calling goroutine for d.
type Sleeper func(d time.Duration)

// ExecCommander implements Commander by running systemctl and ip.
type ExecCommander struct {
	runner    Runner
	systemctl string
	ip        string
	log       *logging.Logger
}

// ExecOption configures an ExecCommander.
type ExecOption func(*ExecCommander)

// WithRunner replaces the process runner.
func WithRunner(r Runner) ExecOption {
	return func(c *ExecCommander) {
		c.runner = r
	}
}

// WithSystemctlPath overrides the systemctl binary.
func WithSystemctlPath(path string) ExecOption {
	return func(c *ExecCommander) {
		if path != "" {
			c.systemctl = path
		}
	}
}

// WithIPPath overrides the ip binary.
func WithIPPath(path string) ExecOption {
	return func(c *ExecCommander) {
		if path != "" {
			c.ip = path
		}
	}
}

// NewExecCommander creates a Commander that shells out to the host tools.
func NewExecCommander(log *logging.Logger, opts ...ExecOption) *ExecCommander {
	c := &ExecCommander{
		runner:    &ExecRunner{},
		systemctl: DefaultSystemctlPath,
		ip:        DefaultIPPath,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restart runs "systemctl restart <unit>".
func (c *ExecCommander) Restart(unit string) int {
	return c.run(c.systemctl, "restart", unit)
}

// ResetFailed runs "systemctl reset-failed <units...>".
func (c *ExecCommander) ResetFailed(units ...string) int {
	args := append([]string{"reset-failed"}, units...)
	return c.run(c.systemctl, args...)
}

// FlushNeighbor runs "ip neigh flush dev <iface> <ip>".
func (c *ExecCommander) FlushNeighbor(iface, ip string) int {
	return c.run(c.ip, "neigh", "flush", "dev", iface, ip)
}

func (c *ExecCommander) run(name string, args ...string) int {
	cmdline := name + " " + strings.Join(args, " ")
	c.log.Logf(logging.PriorityDebug, false, "Executing: %s", cmdline)

	rc, output, err := c.runner.Run(name, args...)
	if err != nil {
		c.log.Logf(logging.PriorityDebug, false, "Command %q exited rc=%d: %v", cmdline, rc, err)
	}
	if output != "" {
		c.log.Logf(logging.PriorityDebug, false, "Command %q output: %s", cmdline, strings.TrimSpace(output))
	}
	return rc
}
