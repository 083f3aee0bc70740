//go:build unit

package iface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireInvariant(t *testing.T, err error, invariant string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, invariant, vErr.Invariant)
	assert.Contains(t, err.Error(), invariant)
}

func TestValidate_VRRPair(t *testing.T) {
	t.Run("VirtualIPOnly", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "vlan10", "virtual_ip": "10.1.1.254"})
		requireInvariant(t, err, InvariantVRRPair)
	})

	t.Run("VirtualMACOnly", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "vlan10", "virtual_mac": "00:00:5e:00:01:01"})
		requireInvariant(t, err, InvariantVRRPair)
	})

	t.Run("Both", func(t *testing.T) {
		_, err := New(map[string]interface{}{
			"name":        "vlan10",
			"virtual_ip":  "10.1.1.254",
			"virtual_mac": "00:00:5e:00:01:01",
		})
		assert.NoError(t, err)
	})

	t.Run("Neither", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "vlan10"})
		assert.NoError(t, err)
	})
}

func TestValidate_MLAGGroup(t *testing.T) {
	group := map[string]interface{}{
		"clagd_enable":  true,
		"clagd_peer_ip": "169.254.1.2",
		"clagd_sys_mac": "44:38:39:ff:00:01",
	}

	// Every subset of the three attributes: zero or three present is valid.
	keys := []string{"clagd_enable", "clagd_peer_ip", "clagd_sys_mac"}
	for mask := 0; mask < 8; mask++ {
		raw := map[string]interface{}{"name": "peerlink.4094"}
		present := 0
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				raw[k] = group[k]
				present++
			}
		}

		_, err := New(raw)
		if present == 0 || present == 3 {
			assert.NoError(t, err, "mask %03b", mask)
		} else {
			requireInvariant(t, err, InvariantMLAGGroup)
		}
	}

	t.Run("ClagdEnableFalseCountsAsPresent", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "peerlink.4094", "clagd_enable": false})
		requireInvariant(t, err, InvariantMLAGGroup)
	})
}

func TestValidate_MLAGDependency(t *testing.T) {
	enabled := func(extra map[string]interface{}) map[string]interface{} {
		raw := map[string]interface{}{
			"name":          "peerlink.4094",
			"clagd_enable":  "true",
			"clagd_peer_ip": "169.254.1.2",
			"clagd_sys_mac": "44:38:39:ff:00:01",
		}
		for k, v := range extra {
			raw[k] = v
		}
		return raw
	}

	for attr, v := range map[string]interface{}{
		"clagd_priority":  4096,
		"clagd_args":      "--initDelay 100",
		"clagd_backup_ip": "192.168.0.2",
	} {
		t.Run(attr+"WithoutEnable", func(t *testing.T) {
			_, err := New(map[string]interface{}{"name": "peerlink.4094", attr: v})
			requireInvariant(t, err, InvariantMLAGDependency)
			assert.Contains(t, err.Error(), attr)
		})

		t.Run(attr+"WithEnable", func(t *testing.T) {
			_, err := New(enabled(map[string]interface{}{attr: v}))
			assert.NoError(t, err)
		})
	}

	t.Run("VxlanAnycastIPHasNoDependency", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "lo", "clagd_vxlan_anycast_ip": "10.0.0.100"})
		assert.NoError(t, err)
	})
}

func TestValidate_VRFTable(t *testing.T) {
	base := func(extra map[string]interface{}) map[string]interface{} {
		raw := map[string]interface{}{"name": "mgmt", "vrf_table": "auto"}
		for k, v := range extra {
			raw[k] = v
		}
		return raw
	}

	t.Run("OnlyIPv4", func(t *testing.T) {
		_, err := New(base(map[string]interface{}{"ipv4": "127.0.0.1/8"}))
		requireInvariant(t, err, InvariantVRFTable)
	})

	t.Run("OnlyIPv6", func(t *testing.T) {
		_, err := New(base(map[string]interface{}{"ipv6": "::1/128"}))
		requireInvariant(t, err, InvariantVRFTable)
	})

	t.Run("Both", func(t *testing.T) {
		_, err := New(base(map[string]interface{}{"ipv4": "127.0.0.1/8", "ipv6": "::1/128"}))
		assert.NoError(t, err)
	})

	t.Run("Neither", func(t *testing.T) {
		_, err := New(base(nil))
		assert.NoError(t, err)
	})

	t.Run("NoVRFTable", func(t *testing.T) {
		_, err := New(map[string]interface{}{"name": "swp1", "ipv4": "10.1.1.1/30"})
		assert.NoError(t, err)
	})
}

func TestValidate_Order(t *testing.T) {
	// VRR and MLAG are both violated; VRR is checked first.
	_, err := New(map[string]interface{}{
		"name":          "swp1",
		"virtual_ip":    "10.1.1.254",
		"clagd_peer_ip": "169.254.1.2",
	})
	requireInvariant(t, err, InvariantVRRPair)
}

func TestValidate_PeerIPWithoutGroup(t *testing.T) {
	_, err := New(map[string]interface{}{"name": "swp2", "clagd_peer_ip": "10.0.0.1"})
	requireInvariant(t, err, InvariantMLAGGroup)
	assert.Contains(t, err.Error(), "swp2")
}
