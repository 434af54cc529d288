package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jerkytreats/servicevalidator/internal/logging"
)

// MockRunner is a mock implementation of Runner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(name string, args ...string) (int, string, error) {
	callArgs := m.Called(name, args)
	return callArgs.Int(0), callArgs.String(1), callArgs.Error(2)
}

func TestExecCommander_Restart(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", "systemctl", []string{"restart", "dhcp_relay"}).Return(0, "", nil)

	c := NewExecCommander(logging.NewNop(), WithRunner(runner))

	assert.Equal(t, 0, c.Restart("dhcp_relay"))
	runner.AssertExpectations(t)
}

func TestExecCommander_ResetFailedMultipleUnits(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", "systemctl", []string{"reset-failed", "rsyslog-config", "rsyslog"}).
		Return(1, "Unit rsyslog-config.service not loaded.", errors.New("exit status 1"))

	c := NewExecCommander(logging.NewNop(), WithRunner(runner))

	assert.Equal(t, 1, c.ResetFailed("rsyslog-config", "rsyslog"))
	runner.AssertExpectations(t)
}

func TestExecCommander_FlushNeighbor(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", "/sbin/ip", []string{"neigh", "flush", "dev", "Vlan1000", "192.168.0.1"}).Return(0, "", nil)

	c := NewExecCommander(logging.NewNop(), WithRunner(runner), WithIPPath("/sbin/ip"))

	assert.Equal(t, 0, c.FlushNeighbor("Vlan1000", "192.168.0.1"))
	runner.AssertExpectations(t)
}

func TestExecCommander_CustomSystemctlPath(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", "/bin/systemctl", []string{"restart", "chrony"}).Return(5, "", errors.New("exit status 5"))

	c := NewExecCommander(logging.NewNop(), WithRunner(runner), WithSystemctlPath("/bin/systemctl"), WithSystemctlPath(""))

	assert.Equal(t, 5, c.Restart("chrony"))
	runner.AssertExpectations(t)
}

func TestExecRunner_ExitCodes(t *testing.T) {
	r := &ExecRunner{}

	rc, out, err := r.Run("sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, 0, rc)
	assert.Equal(t, "hello\n", out)

	rc, _, err = r.Run("sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, rc)

	rc, _, err = r.Run("/nonexistent/binary-for-test")
	require.Error(t, err)
	assert.Equal(t, ExitStartFailure, rc)
}
