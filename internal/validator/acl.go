package validator

import (
	"time"

	mapset "github.com/deckarep/golang-set"

	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
	"github.com/jerkytreats/servicevalidator/internal/system"
)

const (
	fieldACLType        = "type"
	aclTypeControlPlane = "CTRLPLANE"
)

// ControlPlaneACLValidator waits for caclmgrd to apply control-plane ACL rule
// changes. caclmgrd watches the config itself; nothing is restarted.
type ControlPlaneACLValidator struct {
	sleep system.Sleeper
	wait  time.Duration
	log   *logging.Logger
}

func NewControlPlaneACLValidator(sleep system.Sleeper, wait time.Duration, log *logging.Logger) *ControlPlaneACLValidator {
	return &ControlPlaneACLValidator{sleep: sleep, wait: wait, log: log}
}

func (v *ControlPlaneACLValidator) Validate(old, upd snapshot.Config, _ snapshot.ChangedKeys) bool {
	oldRules := old.Table(TableACLRule)
	updRules := upd.Table(TableACLRule)

	oldCtrl := controlPlaneRules(oldRules, controlPlaneTables(old.Table(TableACLTable)))
	updCtrl := controlPlaneRules(updRules, controlPlaneTables(upd.Table(TableACLTable)))

	for _, key := range snapshot.SortedStrings(oldCtrl.Union(updCtrl)) {
		if !snapshot.Equal(oldRules.Row(key), updRules.Row(key)) {
			// One wait covers any number of changed rules.
			v.log.Logf(logging.PriorityInfo, false, "Control-plane ACL rule %s changed; waiting %v for caclmgrd", key, v.wait)
			v.sleep(v.wait)
			return true
		}
	}
	return true
}

func controlPlaneTables(tables snapshot.Table) mapset.Set {
	names := mapset.NewThreadUnsafeSet()
	for name, fields := range tables {
		if fields.String(fieldACLType) == aclTypeControlPlane {
			names.Add(name)
		}
	}
	return names
}

func controlPlaneRules(rules snapshot.Table, tables mapset.Set) mapset.Set {
	keys := mapset.NewThreadUnsafeSet()
	for key := range rules {
		if tables.Contains(snapshot.KeyPrefix(key)) {
			keys.Add(key)
		}
	}
	return keys
}
