// Package iface defines the desired configuration of a switch or host network interface,
// the normalization of raw attribute input into canonical values, and the cross-attribute
// invariants a well-formed configuration must satisfy.
package iface

import (
	"path/filepath"
	"sort"
)

// DefaultLocation is the directory holding one interface stanza file per interface.
const DefaultLocation = "/etc/network/interfaces.d"

// AddrMethod is the address assignment method of an interface.
type AddrMethod string

const (
	AddrMethodDHCP     AddrMethod = "dhcp"
	AddrMethodLoopback AddrMethod = "loopback"
)

// Config is the desired state of a single interface. Optional attributes are nil when absent.
// A Config returned by New satisfies every invariant and must be treated as read-only.
type Config struct {
	Name     string
	Location string

	IPv4       []string
	IPv6       []string
	AliasName  *string
	AddrMethod *AddrMethod
	Speed      *int
	MTU        *int
	Gateway    *string

	// Bridge port
	Access        *int
	AllowUntagged *bool
	VIDs          []int
	PVID          *int

	// VRR
	VirtualIP  *string
	VirtualMAC *string

	// Spanning tree
	MstpctlPortNetwork   *bool
	MstpctlBPDUGuard     *bool
	MstpctlPortAdminEdge *bool

	// MLAG
	ClagdEnable         *bool
	ClagdPriority       *int
	ClagdPeerIP         *string
	ClagdBackupIP       *string
	ClagdSysMAC         *string
	ClagdArgs           *string
	ClagdVxlanAnycastIP *string

	VlanRawDevice *string
	VlanID        *string
	VRF           *string
	VRFTable      *string

	Up   []string
	Down []string
}

// New normalizes raw attributes and validates the result. No Config is returned on failure.
func New(raw map[string]interface{}) (*Config, error) {
	c, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Normalize converts raw attributes into a Config without checking cross-attribute invariants.
// It is used for live state, which may have drifted into a shape New would reject.
func Normalize(raw map[string]interface{}) (*Config, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := attributeIndex[k]; !ok {
			return nil, invalidValue(k, raw[k], "unknown attribute")
		}
	}

	c := &Config{Location: DefaultLocation}
	for _, attr := range attributes {
		v, ok := raw[attr.name]
		if !ok {
			continue
		}
		if err := attr.munge(c, v); err != nil {
			return nil, err
		}
	}
	if c.Name == "" {
		return nil, invalidValue("name", raw["name"], "interface name is required")
	}
	return c, nil
}

// Attributes returns the canonical raw form of the config: every present attribute mapped
// to its normalized value. New(c.Attributes()) yields a config equal to c.
func (c *Config) Attributes() map[string]interface{} {
	out := make(map[string]interface{}, len(attributes))
	for _, attr := range attributes {
		if v, ok := attr.value(c); ok {
			out[attr.name] = v
		}
	}
	return out
}

// AttributeNames lists every recognized attribute in declaration order.
func AttributeNames() []string {
	names := make([]string, len(attributes))
	for i, attr := range attributes {
		names[i] = attr.name
	}
	return names
}

// Value returns the normalized value of the named attribute and whether it is present.
func (c *Config) Value(name string) (interface{}, bool) {
	attr, ok := attributeIndex[name]
	if !ok || c == nil {
		return nil, false
	}
	return attr.value(c)
}

// Path returns the stanza file holding this interface.
func (c *Config) Path() string {
	return filepath.Join(c.Location, c.Name)
}
