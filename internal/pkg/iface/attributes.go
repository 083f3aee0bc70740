package iface

// attribute binds a raw attribute name to its normalization rule and its slot in Config.
type attribute struct {
	name  string
	munge func(c *Config, v interface{}) error
	value func(c *Config) (interface{}, bool)
}

// attributes is the declarative schema. Normalization and Attributes() walk it in order.
var attributes = []attribute{
	{
		name: "name",
		munge: func(c *Config, v interface{}) error {
			s, err := mungeString("name", v)
			if err != nil {
				return err
			}
			if s, err = checkName("name", s); err != nil {
				return err
			}
			c.Name = s
			return nil
		},
		value: func(c *Config) (interface{}, bool) { return c.Name, c.Name != "" },
	},
	{
		name: "location",
		munge: func(c *Config, v interface{}) error {
			if v == nil {
				return nil
			}
			s, err := mungeString("location", v)
			if err != nil {
				return err
			}
			if s == "" {
				return invalidValue("location", v, "must not be empty")
			}
			c.Location = s
			return nil
		},
		value: func(c *Config) (interface{}, bool) { return c.Location, c.Location != "" },
	},
	stringList("ipv4", func(c *Config) *[]string { return &c.IPv4 }, checkCIDR(4)),
	stringList("ipv6", func(c *Config) *[]string { return &c.IPv6 }, checkCIDR(6)),
	stringAttr("alias_name", func(c *Config) **string { return &c.AliasName }),
	{
		name: "addr_method",
		munge: func(c *Config, v interface{}) error {
			allowed := []string{string(AddrMethodDHCP), string(AddrMethodLoopback)}
			s, ok := v.(string)
			if !ok {
				return invalidEnum("addr_method", v, allowed)
			}
			switch m := AddrMethod(s); m {
			case AddrMethodDHCP, AddrMethodLoopback:
				c.AddrMethod = &m
				return nil
			}
			return invalidEnum("addr_method", v, allowed)
		},
		value: func(c *Config) (interface{}, bool) {
			if c.AddrMethod == nil {
				return nil, false
			}
			return string(*c.AddrMethod), true
		},
	},
	intAttr("speed", func(c *Config) **int { return &c.Speed }, 1, maxInt),
	intAttr("mtu", func(c *Config) **int { return &c.MTU }, 1500, 9000),
	intAttr("access", func(c *Config) **int { return &c.Access }, 1, 4094),
	boolAttr("allow_untagged", false, func(c *Config) **bool { return &c.AllowUntagged }),
	stringAttr("virtual_ip", func(c *Config) **string { return &c.VirtualIP }, checkWord),
	stringAttr("virtual_mac", func(c *Config) **string { return &c.VirtualMAC }, checkWord),
	intList("vids", func(c *Config) *[]int { return &c.VIDs }, 1, 4094),
	intAttr("pvid", func(c *Config) **int { return &c.PVID }, 1, 4094),
	boolAttr("mstpctl_portnetwork", true, func(c *Config) **bool { return &c.MstpctlPortNetwork }),
	boolAttr("mstpctl_bpduguard", true, func(c *Config) **bool { return &c.MstpctlBPDUGuard }),
	boolAttr("mstpctl_portadminedge", false, func(c *Config) **bool { return &c.MstpctlPortAdminEdge }),
	boolAttr("clagd_enable", true, func(c *Config) **bool { return &c.ClagdEnable }),
	intAttr("clagd_priority", func(c *Config) **int { return &c.ClagdPriority }, 0, 65535),
	stringAttr("clagd_peer_ip", func(c *Config) **string { return &c.ClagdPeerIP }),
	stringAttr("clagd_backup_ip", func(c *Config) **string { return &c.ClagdBackupIP }),
	stringAttr("clagd_sys_mac", func(c *Config) **string { return &c.ClagdSysMAC }),
	stringAttr("clagd_args", func(c *Config) **string { return &c.ClagdArgs }),
	stringAttr("clagd_vxlan_anycast_ip", func(c *Config) **string { return &c.ClagdVxlanAnycastIP }),
	stringAttr("gateway", func(c *Config) **string { return &c.Gateway }),
	stringAttr("vlan_raw_device", func(c *Config) **string { return &c.VlanRawDevice }),
	stringAttr("vlan_id", func(c *Config) **string { return &c.VlanID }),
	stringAttr("vrf", func(c *Config) **string { return &c.VRF }),
	stringAttr("vrf_table", func(c *Config) **string { return &c.VRFTable }),
	stringList("up", func(c *Config) *[]string { return &c.Up }, checkCommand),
	stringList("down", func(c *Config) *[]string { return &c.Down }, checkCommand),
}

var attributeIndex = func() map[string]attribute {
	idx := make(map[string]attribute, len(attributes))
	for _, attr := range attributes {
		idx[attr.name] = attr
	}
	return idx
}()

const maxInt = int(^uint32(0) >> 1)

func stringAttr(name string, field func(*Config) **string, checks ...func(attr, s string) (string, error)) attribute {
	return attribute{
		name: name,
		munge: func(c *Config, v interface{}) error {
			if v == nil {
				return nil
			}
			s, err := mungeString(name, v)
			if err != nil {
				return err
			}
			for _, check := range checks {
				if s, err = check(name, s); err != nil {
					return err
				}
			}
			*field(c) = &s
			return nil
		},
		value: func(c *Config) (interface{}, bool) {
			if p := *field(c); p != nil {
				return *p, true
			}
			return nil, false
		},
	}
}

func intAttr(name string, field func(*Config) **int, min, max int) attribute {
	return attribute{
		name: name,
		munge: func(c *Config, v interface{}) error {
			if v == nil {
				return nil
			}
			n, err := mungeInteger(name, v)
			if err != nil {
				return err
			}
			if err := checkRange(name, n, min, max); err != nil {
				return err
			}
			*field(c) = &n
			return nil
		},
		value: func(c *Config) (interface{}, bool) {
			if p := *field(c); p != nil {
				return *p, true
			}
			return nil, false
		},
	}
}

func boolAttr(name string, def bool, field func(*Config) **bool) attribute {
	return attribute{
		name: name,
		munge: func(c *Config, v interface{}) error {
			b, err := mungeBoolean(name, v, def)
			if err != nil {
				return err
			}
			*field(c) = &b
			return nil
		},
		value: func(c *Config) (interface{}, bool) {
			if p := *field(c); p != nil {
				return *p, true
			}
			return nil, false
		},
	}
}

func stringList(name string, field func(*Config) *[]string, check func(attr, s string) (string, error)) attribute {
	return attribute{
		name: name,
		munge: func(c *Config, v interface{}) error {
			items := mungeArray(v)
			if items == nil {
				return nil
			}
			out := make([]string, 0, len(items))
			for _, item := range items {
				s, err := mungeString(name, item)
				if err != nil {
					return err
				}
				if s, err = check(name, s); err != nil {
					return err
				}
				out = append(out, s)
			}
			*field(c) = out
			return nil
		},
		value: func(c *Config) (interface{}, bool) {
			if l := *field(c); l != nil {
				return append([]string(nil), l...), true
			}
			return nil, false
		},
	}
}

func intList(name string, field func(*Config) *[]int, min, max int) attribute {
	return attribute{
		name: name,
		munge: func(c *Config, v interface{}) error {
			items := mungeArray(v)
			if items == nil {
				return nil
			}
			out := make([]int, 0, len(items))
			for _, item := range items {
				n, err := mungeInteger(name, item)
				if err != nil {
					return err
				}
				if err := checkRange(name, n, min, max); err != nil {
					return err
				}
				out = append(out, n)
			}
			*field(c) = out
			return nil
		},
		value: func(c *Config) (interface{}, bool) {
			if l := *field(c); l != nil {
				return append([]int(nil), l...), true
			}
			return nil, false
		},
	}
}
