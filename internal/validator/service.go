package validator

import (
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
)

// ServiceRestartValidator restarts its service on every invocation. Used for
// domains where any change needs the daemon to reload, such as DHCP relay and NTP.
type ServiceRestartValidator struct {
	restarter Restarter
	unit      string
}

func NewServiceRestartValidator(restarter Restarter, unit string) *ServiceRestartValidator {
	return &ServiceRestartValidator{restarter: restarter, unit: unit}
}

func (v *ServiceRestartValidator) Validate(_, _ snapshot.Config, _ snapshot.ChangedKeys) bool {
	return v.restarter.RestartService(v.unit)
}
