package validator

import (
	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
	"github.com/jerkytreats/servicevalidator/internal/system"
)

// SyslogValidator regenerates the rsyslog configuration when the syslog
// server table changed.
type SyslogValidator struct {
	cmd         system.Commander
	configUnit  string
	serviceUnit string
	log         *logging.Logger
}

// NewSyslogValidator creates a SyslogValidator. configUnit is restarted;
// both units have their failed state cleared first.
func NewSyslogValidator(cmd system.Commander, configUnit, serviceUnit string, log *logging.Logger) *SyslogValidator {
	return &SyslogValidator{
		cmd:         cmd,
		configUnit:  configUnit,
		serviceUnit: serviceUnit,
		log:         log,
	}
}

func (v *SyslogValidator) Validate(old, upd snapshot.Config, _ snapshot.ChangedKeys) bool {
	if snapshot.Equal(old.Table(TableSyslogServer), upd.Table(TableSyslogServer)) {
		return true
	}

	rc := v.cmd.ResetFailed(v.configUnit, v.serviceUnit)
	v.log.Logf(logging.PriorityDebug, false, "reset-failed %s %s rc=%d", v.configUnit, v.serviceUnit, rc)

	if rc = v.cmd.Restart(v.configUnit); rc != 0 {
		v.log.Logf(logging.PriorityError, v.log.Verbose(), "Restart failed for %s rc=%d", v.configUnit, rc)
		return false
	}
	return true
}
