// Package validator checks that the running system absorbed a configuration
// change and performs the corrective action when it did not: a service
// restart, a neighbor-table flush or a settle wait.
//
// Every validator compares the old and updated snapshots itself rather than
// trusting the changed-key set, since a change in one table can imply work
// driven by another.
package validator

import (
	"time"

	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
	"github.com/jerkytreats/servicevalidator/internal/system"
)

// Configuration tables inspected by the validators.
const (
	TableSyslogServer  = "SYSLOG_SERVER"
	TableVLAN          = "VLAN"
	TableACLTable      = "ACL_TABLE"
	TableACLRule       = "ACL_RULE"
	TableVLANInterface = "VLAN_INTERFACE"
)

// DefaultACLSettleWait covers caclmgrd's own delay before it rewrites iptables.
const DefaultACLSettleWait = time.Second

// Validator reports whether the system is consistent after old became upd.
// false means the corrective action failed.
type Validator interface {
	Validate(old, upd snapshot.Config, keys snapshot.ChangedKeys) bool
}

// Func adapts a plain function to Validator.
type Func func(old, upd snapshot.Config, keys snapshot.ChangedKeys) bool

func (f Func) Validate(old, upd snapshot.Config, keys snapshot.ChangedKeys) bool {
	return f(old, upd, keys)
}

// Restarter restarts a service and reports success.
type Restarter interface {
	RestartService(name string) bool
}

// Units names the systemd units the validators act on.
type Units struct {
	RsyslogConfig string
	Rsyslog       string
	DHCPRelay     string
	NTP           string
}

// DefaultUnits returns the unit names used on the device.
func DefaultUnits() Units {
	return Units{
		RsyslogConfig: "rsyslog-config",
		Rsyslog:       "rsyslog",
		DHCPRelay:     "dhcp_relay",
		NTP:           "chrony",
	}
}

// Deps are the collaborators shared by the default validators.
type Deps struct {
	Commander     system.Commander
	Restarter     Restarter
	Logger        *logging.Logger
	Sleep         system.Sleeper
	Units         Units
	ACLSettleWait time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.ACLSettleWait == 0 {
		d.ACLSettleWait = DefaultACLSettleWait
	}
	defaults := DefaultUnits()
	if d.Units.RsyslogConfig == "" {
		d.Units.RsyslogConfig = defaults.RsyslogConfig
	}
	if d.Units.Rsyslog == "" {
		d.Units.Rsyslog = defaults.Rsyslog
	}
	if d.Units.DHCPRelay == "" {
		d.Units.DHCPRelay = defaults.DHCPRelay
	}
	if d.Units.NTP == "" {
		d.Units.NTP = defaults.NTP
	}
	return d
}
