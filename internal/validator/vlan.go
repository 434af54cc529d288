package validator

import (
	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
)

const fieldDHCPServers = "dhcp_servers"

// VLANValidator restarts the DHCP relay when any VLAN's DHCP server list changed.
type VLANValidator struct {
	restarter Restarter
	unit      string
	log       *logging.Logger
}

func NewVLANValidator(restarter Restarter, unit string, log *logging.Logger) *VLANValidator {
	return &VLANValidator{restarter: restarter, unit: unit, log: log}
}

func (v *VLANValidator) Validate(old, upd snapshot.Config, _ snapshot.ChangedKeys) bool {
	oldVLAN := old.Table(TableVLAN)
	updVLAN := upd.Table(TableVLAN)

	for _, key := range snapshot.SortedStrings(oldVLAN.Keys().Union(updVLAN.Keys())) {
		oldServers := oldVLAN.Row(key).StringList(fieldDHCPServers)
		updServers := updVLAN.Row(key).StringList(fieldDHCPServers)
		if !snapshot.Equal(oldServers, updServers) {
			v.log.Logf(logging.PriorityInfo, false, "%s of %s changed %v -> %v", fieldDHCPServers, key, oldServers, updServers)
			return v.restarter.RestartService(v.unit)
		}
	}
	return true
}
