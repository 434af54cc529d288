// Package systemtest provides a recording Commander for tests.
package systemtest

import (
	"strings"
	"time"
)

const (
	VerbRestart       = "restart"
	VerbResetFailed   = "reset-failed"
	VerbFlushNeighbor = "flush-neighbor"
	VerbWait          = "wait"
)

// Call is one recorded command or wait.
type Call struct {
	Verb string
	Args []string
	Wait time.Duration
}

// Recorder implements system.Commander and system.Sleeper, recording every
// call in order. Exit codes are scripted per verb.
type Recorder struct {
	// RestartCodes are returned by successive Restart calls; 0 once exhausted.
	RestartCodes []int
	// ResetFailedCode is returned by every ResetFailed call.
	ResetFailedCode int
	// FlushCodes maps "iface|ip" to the exit code of FlushNeighbor; 0 when absent.
	FlushCodes map[string]int

	Calls []Call
}

func (r *Recorder) Restart(unit string) int {
	r.Calls = append(r.Calls, Call{Verb: VerbRestart, Args: []string{unit}})
	if len(r.RestartCodes) == 0 {
		return 0
	}
	rc := r.RestartCodes[0]
	r.RestartCodes = r.RestartCodes[1:]
	return rc
}

func (r *Recorder) ResetFailed(units ...string) int {
	r.Calls = append(r.Calls, Call{Verb: VerbResetFailed, Args: append([]string(nil), units...)})
	return r.ResetFailedCode
}

func (r *Recorder) FlushNeighbor(iface, ip string) int {
	r.Calls = append(r.Calls, Call{Verb: VerbFlushNeighbor, Args: []string{iface, ip}})
	return r.FlushCodes[iface+"|"+ip]
}

// Sleep records a wait without blocking.
func (r *Recorder) Sleep(d time.Duration) {
	r.Calls = append(r.Calls, Call{Verb: VerbWait, Wait: d})
}

// Verbs returns the recorded verbs in order.
func (r *Recorder) Verbs() []string {
	verbs := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		verbs = append(verbs, c.Verb)
	}
	return verbs
}

// Trace renders the calls as "verb arg arg" lines; waits render as "wait <duration>".
func (r *Recorder) Trace() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		if c.Verb == VerbWait {
			lines = append(lines, VerbWait+" "+c.Wait.String())
			continue
		}
		lines = append(lines, strings.TrimSpace(c.Verb+" "+strings.Join(c.Args, " ")))
	}
	return lines
}
