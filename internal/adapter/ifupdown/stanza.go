// Package ifupdown renders interface configurations as ifupdown2 stanzas and reads them back.
package ifupdown

import (
	"bufio"
	"bytes"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"golang-ifupdown/internal/pkg/iface"
)

type valueKind int

const (
	kindScalar   valueKind = iota // one line, rest of line is the value
	kindFlag                      // one line, yes/no
	kindWords                     // one line, space separated list
	kindRepeated                  // one line per list entry
)

// directive maps an ifupdown2 keyword to an interface attribute.
type directive struct {
	keyword string
	attr    string
	kind    valueKind
}

// directives are rendered in this order, after the address lines and before address-virtual.
var directives = []directive{
	{"alias", "alias_name", kindScalar},
	{"link-speed", "speed", kindScalar},
	{"mtu", "mtu", kindScalar},
	{"gateway", "gateway", kindScalar},
	{"bridge-access", "access", kindScalar},
	{"bridge-allow-untagged", "allow_untagged", kindFlag},
	{"bridge-vids", "vids", kindWords},
	{"bridge-pvid", "pvid", kindScalar},
	{"mstpctl-portnetwork", "mstpctl_portnetwork", kindFlag},
	{"mstpctl-bpduguard", "mstpctl_bpduguard", kindFlag},
	{"mstpctl-portadminedge", "mstpctl_portadminedge", kindFlag},
	{"clagd-enable", "clagd_enable", kindFlag},
	{"clagd-priority", "clagd_priority", kindScalar},
	{"clagd-peer-ip", "clagd_peer_ip", kindScalar},
	{"clagd-backup-ip", "clagd_backup_ip", kindScalar},
	{"clagd-sys-mac", "clagd_sys_mac", kindScalar},
	{"clagd-args", "clagd_args", kindScalar},
	{"clagd-vxlan-anycast-ip", "clagd_vxlan_anycast_ip", kindScalar},
	{"vlan-raw-device", "vlan_raw_device", kindScalar},
	{"vlan-id", "vlan_id", kindScalar},
	{"vrf", "vrf", kindScalar},
	{"vrf-table", "vrf_table", kindScalar},
	{"up", "up", kindRepeated},
	{"down", "down", kindRepeated},
}

var directiveIndex = func() map[string]directive {
	idx := make(map[string]directive, len(directives))
	for _, d := range directives {
		idx[d.keyword] = d
	}
	return idx
}()

const indent = "    "

// Render returns the stanza file contents for c.
func Render(c *iface.Config) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "auto %s\n", c.Name)
	if c.AddrMethod != nil {
		fmt.Fprintf(&b, "iface %s inet %s\n", c.Name, *c.AddrMethod)
	} else {
		fmt.Fprintf(&b, "iface %s\n", c.Name)
	}

	for _, addr := range c.IPv4 {
		fmt.Fprintf(&b, "%saddress %s\n", indent, addr)
	}
	for _, addr := range c.IPv6 {
		fmt.Fprintf(&b, "%saddress %s\n", indent, addr)
	}

	for _, d := range directives {
		v, ok := c.Value(d.attr)
		if !ok {
			continue
		}
		switch d.kind {
		case kindScalar:
			fmt.Fprintf(&b, "%s%s %v\n", indent, d.keyword, v)
		case kindFlag:
			fmt.Fprintf(&b, "%s%s %s\n", indent, d.keyword, yesNo(v.(bool)))
		case kindWords:
			ids := v.([]int)
			words := make([]string, len(ids))
			for i, id := range ids {
				words[i] = strconv.Itoa(id)
			}
			fmt.Fprintf(&b, "%s%s %s\n", indent, d.keyword, strings.Join(words, " "))
		case kindRepeated:
			for _, line := range v.([]string) {
				fmt.Fprintf(&b, "%s%s %s\n", indent, d.keyword, line)
			}
		}
	}

	if c.VirtualMAC != nil && c.VirtualIP != nil {
		fmt.Fprintf(&b, "%saddress-virtual %s %s\n", indent, *c.VirtualMAC, *c.VirtualIP)
	}

	return b.Bytes()
}

// Parse reads the stanza for the named interface and returns its raw attributes, keyed the
// same way iface.New expects. found is false when the data holds no stanza for name.
// Comments, blank lines and keywords without a matching attribute are skipped.
func Parse(data []byte, name string) (raw map[string]interface{}, found bool, err error) {
	raw = map[string]interface{}{"name": name}
	inStanza := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "auto", "allow-hotplug":
			continue
		case "iface":
			fields := strings.Fields(rest)
			inStanza = len(fields) > 0 && fields[0] == name
			if !inStanza {
				continue
			}
			found = true
			if len(fields) >= 3 && fields[1] == "inet" {
				raw["addr_method"] = fields[2]
			}
			continue
		}
		if !inStanza {
			continue
		}

		switch keyword {
		case "address":
			attr := "ipv4"
			if p, perr := netip.ParsePrefix(rest); perr == nil && p.Addr().Is6() {
				attr = "ipv6"
			}
			raw[attr] = appendValue(raw[attr], rest)
			continue
		case "address-virtual":
			mac, ip, ok := strings.Cut(rest, " ")
			if !ok {
				return nil, false, fmt.Errorf("line %d: address-virtual requires a MAC and an IP", lineNo)
			}
			raw["virtual_mac"] = mac
			raw["virtual_ip"] = strings.TrimSpace(ip)
			continue
		}

		d, ok := directiveIndex[keyword]
		if !ok {
			continue
		}
		switch d.kind {
		case kindScalar:
			raw[d.attr] = rest
		case kindFlag:
			b, err := parseYesNo(rest)
			if err != nil {
				return nil, false, fmt.Errorf("line %d: %s: %w", lineNo, keyword, err)
			}
			raw[d.attr] = b
		case kindWords:
			var words []interface{}
			for _, w := range strings.Fields(rest) {
				words = append(words, w)
			}
			raw[d.attr] = words
		case kindRepeated:
			raw[d.attr] = appendValue(raw[d.attr], rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to scan stanza: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return raw, true, nil
}

func appendValue(existing interface{}, v string) []interface{} {
	list, _ := existing.([]interface{})
	return append(list, v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on", "1":
		return true, nil
	case "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", s)
}
