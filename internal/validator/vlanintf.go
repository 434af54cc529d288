package validator

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
	"github.com/jerkytreats/servicevalidator/internal/system"
)

type interfaceAddress struct {
	Iface string
	IP    string
}

// VLANInterfaceValidator flushes neighbor entries learned through VLAN
// interface addresses that were removed. Added addresses need nothing.
type VLANInterfaceValidator struct {
	cmd system.Commander
	log *logging.Logger
}

func NewVLANInterfaceValidator(cmd system.Commander, log *logging.Logger) *VLANInterfaceValidator {
	return &VLANInterfaceValidator{cmd: cmd, log: log}
}

func (v *VLANInterfaceValidator) Validate(old, upd snapshot.Config, _ snapshot.ChangedKeys) bool {
	oldAddrs := interfaceAddresses(old.Table(TableVLANInterface))
	updAddrs := interfaceAddresses(upd.Table(TableVLANInterface))

	for _, addr := range sortedAddresses(oldAddrs.Difference(updAddrs)) {
		if rc := v.cmd.FlushNeighbor(addr.Iface, addr.IP); rc != 0 {
			v.log.Logf(logging.PriorityError, v.log.Verbose(), "Neighbor flush failed for %s %s rc=%d", addr.Iface, addr.IP, rc)
			return false
		}
	}
	return true
}

// interfaceAddresses collects the "<iface>|<ip>" keys; bare interface keys are skipped.
func interfaceAddresses(t snapshot.Table) mapset.Set {
	addrs := mapset.NewThreadUnsafeSet()
	for key := range t {
		parts := snapshot.SplitKey(key)
		if len(parts) == 2 {
			addrs.Add(interfaceAddress{Iface: parts[0], IP: parts[1]})
		}
	}
	return addrs
}

func sortedAddresses(set mapset.Set) []interfaceAddress {
	out := make([]interfaceAddress, 0, set.Cardinality())
	for _, item := range set.ToSlice() {
		out = append(out, item.(interfaceAddress))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Iface != out[j].Iface {
			return out[i].Iface < out[j].Iface
		}
		return out[i].IP < out[j].IP
	})
	return out
}
