package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jerkytreats/servicevalidator/internal/snapshot"
)

// Domain tags a configuration domain with its validator.
type Domain string

const (
	DomainRsyslog       Domain = "rsyslog"
	DomainDHCP          Domain = "dhcp"
	DomainVLAN          Domain = "vlan"
	DomainControlPlane  Domain = "caclmgrd"
	DomainNTP           Domain = "ntp"
	DomainVLANInterface Domain = "vlanintf"
)

// ErrUnknownDomain is returned when no validator is registered for a domain.
var ErrUnknownDomain = errors.New("unknown validator domain")

// Registry maps domains to validators.
type Registry struct {
	validators map[Domain]Validator
}

func NewRegistry() *Registry {
	return &Registry{validators: make(map[Domain]Validator)}
}

// NewDefaultRegistry registers the validators for every known domain.
func NewDefaultRegistry(deps Deps) *Registry {
	deps = deps.withDefaults()
	r := NewRegistry()
	r.Register(DomainRsyslog, NewSyslogValidator(deps.Commander, deps.Units.RsyslogConfig, deps.Units.Rsyslog, deps.Logger))
	r.Register(DomainDHCP, NewServiceRestartValidator(deps.Restarter, deps.Units.DHCPRelay))
	r.Register(DomainVLAN, NewVLANValidator(deps.Restarter, deps.Units.DHCPRelay, deps.Logger))
	r.Register(DomainControlPlane, NewControlPlaneACLValidator(deps.Sleep, deps.ACLSettleWait, deps.Logger))
	r.Register(DomainNTP, NewServiceRestartValidator(deps.Restarter, deps.Units.NTP))
	r.Register(DomainVLANInterface, NewVLANInterfaceValidator(deps.Commander, deps.Logger))
	return r
}

// Register adds or replaces the validator for d.
func (r *Registry) Register(d Domain, v Validator) {
	r.validators[d] = v
}

// Lookup returns the validator for d.
func (r *Registry) Lookup(d Domain) (Validator, bool) {
	v, ok := r.validators[d]
	return v, ok
}

// Domains lists the registered domains in sorted order.
func (r *Registry) Domains() []Domain {
	out := make([]Domain, 0, len(r.validators))
	for d := range r.validators {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run validates a change with the validator registered for d.
func (r *Registry) Run(d Domain, old, upd snapshot.Config, keys snapshot.ChangedKeys) (bool, error) {
	v, ok := r.Lookup(d)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	return v.Validate(old, upd, keys), nil
}
