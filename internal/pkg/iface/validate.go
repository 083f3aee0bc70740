package iface

// invariant is a cross-attribute rule. check returns a message when the rule is violated.
type invariant struct {
	name  string
	check func(c *Config) string
}

var invariants = []invariant{
	{
		name: InvariantVRRPair,
		check: func(c *Config) string {
			if (c.VirtualIP == nil) != (c.VirtualMAC == nil) {
				return "VRR parameters virtual_ip and virtual_mac must be configured together"
			}
			return ""
		},
	},
	{
		name: InvariantMLAGGroup,
		check: func(c *Config) string {
			present := 0
			for _, set := range []bool{c.ClagdEnable != nil, c.ClagdPeerIP != nil, c.ClagdSysMAC != nil} {
				if set {
					present++
				}
			}
			if present != 0 && present != 3 {
				return "clagd parameters clagd_enable, clagd_peer_ip and clagd_sys_mac must be configured together"
			}
			return ""
		},
	},
	{
		name: InvariantMLAGDependency,
		check: func(c *Config) string {
			if c.ClagdEnable != nil {
				return ""
			}
			switch {
			case c.ClagdArgs != nil:
				return "clagd_enable must be set for clagd_args to be active"
			case c.ClagdPriority != nil:
				return "clagd_enable must be set for clagd_priority to be active"
			case c.ClagdBackupIP != nil:
				return "clagd_enable must be set for clagd_backup_ip to be applied"
			}
			return ""
		},
	},
	{
		name: InvariantVRFTable,
		check: func(c *Config) string {
			if c.VRFTable != nil && (c.IPv4 == nil) != (c.IPv6 == nil) {
				return "vrf_table requires both loopback IPv4 and IPv6 addresses"
			}
			return ""
		},
	},
}

// Validate checks the cross-attribute invariants in order and reports the first violation.
func (c *Config) Validate() error {
	for _, inv := range invariants {
		if msg := inv.check(c); msg != "" {
			return &ValidationError{Interface: c.Name, Invariant: inv.name, Message: msg}
		}
	}
	return nil
}
