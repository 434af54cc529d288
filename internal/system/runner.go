package system

import (
	"bytes"
	"errors"
	"os/exec"
)

// ExitStartFailure is reported when a command could not be started at all.
const ExitStartFailure = -1

// Runner executes a process to completion.
type Runner interface {
	Run(name string, args ...string) (exitCode int, output string, err error)
}

// ExecRunner runs processes with os/exec. There is no timeout: a command
// runs until it exits.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (int, string, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...) //nolint:gosec
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return 0, out.String(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), out.String(), err
	}
	return ExitStartFailure, out.String(), err
}
