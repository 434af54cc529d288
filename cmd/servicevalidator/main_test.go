package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerkytreats/servicevalidator/internal/config"
	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/system"
	"github.com/jerkytreats/servicevalidator/internal/system/systemtest"
	"github.com/jerkytreats/servicevalidator/internal/validator"
)

func setupRecorder(t *testing.T, rec *systemtest.Recorder) {
	t.Helper()
	config.ResetForTest()

	origCommander, origSleep := newCommander, sleep
	newCommander = func(*logging.Logger) system.Commander { return rec }
	sleep = rec.Sleep
	t.Cleanup(func() {
		newCommander, sleep = origCommander, origSleep
		config.ResetForTest()
	})
}

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_VLANInterfaceDeletion(t *testing.T) {
	rec := &systemtest.Recorder{}
	setupRecorder(t, rec)

	oldPath := writeSnapshot(t, "old.json", `{"VLAN_INTERFACE": {"Vlan1000": {}, "Vlan1000|192.168.0.1": {}}}`)
	updPath := writeSnapshot(t, "upd.json", `{"VLAN_INTERFACE": {"Vlan1000": {}}}`)

	out, err := execute("run", "--domain", "vlanintf", "--old", oldPath, "--upd", updPath, "--keys", "Vlan1000|192.168.0.1")
	require.NoError(t, err)
	assert.Equal(t, "vlanintf: OK\n", out)
	assert.Equal(t, []string{"flush-neighbor Vlan1000 192.168.0.1"}, rec.Trace())
}

func TestRun_RestartFailureExitsWithError(t *testing.T) {
	rec := &systemtest.Recorder{RestartCodes: []int{1, 1, 1}}
	setupRecorder(t, rec)

	cfgPath := writeSnapshot(t, "config.yaml", "restart:\n  retry_pause: 2s\nunits:\n  ntp: ntpd\n")
	snap := writeSnapshot(t, "cfg.yaml", "NTP:\n  global:\n    src_intf: eth0\n")

	out, err := execute("--config", cfgPath, "run", "-d", "ntp", "--old", snap, "--upd", snap)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Equal(t, "ntp: FAILED\n", out)
	assert.Equal(t, []string{
		"restart ntpd",
		"reset-failed ntpd",
		"restart ntpd",
		"wait 2s",
		"restart ntpd",
	}, rec.Trace())
}

func TestRun_UnknownDomain(t *testing.T) {
	rec := &systemtest.Recorder{}
	setupRecorder(t, rec)

	snap := writeSnapshot(t, "cfg.json", `{}`)

	_, err := execute("run", "--domain", "bgp", "--old", snap, "--upd", snap)
	require.ErrorIs(t, err, validator.ErrUnknownDomain)
	assert.Empty(t, rec.Calls)
}

func TestRun_MissingSnapshot(t *testing.T) {
	setupRecorder(t, &systemtest.Recorder{})

	_, err := execute("run", "--domain", "ntp", "--old", "/nonexistent/old.json", "--upd", "/nonexistent/upd.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot")
}

func TestRun_RequiresFlags(t *testing.T) {
	setupRecorder(t, &systemtest.Recorder{})

	_, err := execute("run", "--domain", "ntp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestList(t *testing.T) {
	setupRecorder(t, &systemtest.Recorder{})

	out, err := execute("list")
	require.NoError(t, err)
	assert.Equal(t, "caclmgrd\ndhcp\nntp\nrsyslog\nvlan\nvlanintf\n", out)
}

func TestNewLogger(t *testing.T) {
	config.ResetForTest()
	t.Cleanup(config.ResetForTest)

	assert.Equal(t, logging.PriorityDebug, newLogger(true).MinPriority())
	assert.Equal(t, logging.PriorityNotice, newLogger(false).MinPriority())

	config.SetForTest(config.LogLevelKey, "error")
	assert.Equal(t, logging.PriorityError, newLogger(false).MinPriority())

	config.SetForTest(config.VerboseKey, true)
	log := newLogger(false)
	assert.True(t, log.Verbose())
	assert.Equal(t, logging.PriorityDebug, log.MinPriority())
}
