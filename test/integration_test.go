//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang-ifupdown/internal/adapter/ifupdown"
	"golang-ifupdown/internal/adapter/infrastructure/file"
	"golang-ifupdown/internal/adapter/reconcile"
	"golang-ifupdown/internal/pkg/config"
	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/iface"
)

// writeConfig writes a YAML config whose interfaces live under stanzaDir.
func writeConfig(t *testing.T, stanzaDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`logging:
  level: debug
  format: simple

interfaces:
  swp1:
    location: %[1]s
    mtu: 9000
    vids: [10, 20]
    mstpctl_bpduguard:
  lo:
    location: %[1]s
    addr_method: loopback
    ipv4: 10.0.0.11/32
    ipv6: 2001:db8::11/128
  peerlink.4094:
    location: %[1]s
    ipv4: 169.254.1.1/30
    clagd_enable: "true"
    clagd_peer_ip: 169.254.1.2
    clagd_sys_mac: 44:38:39:ff:00:01
    clagd_priority: "4096"
`, stanzaDir)

	path := filepath.Join(t.TempDir(), "interfaces.yml")
	if err := os.WriteFile(path, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// TestConvergeFromConfigFile drives the full pipeline: load and validate a config file,
// converge every interface onto disk, detect an out-of-band edit and repair it.
func TestConvergeFromConfigFile(t *testing.T) {
	ctx := context.Background()
	stanzaDir := filepath.Join(t.TempDir(), "interfaces.d")

	cfg, err := config.Load(writeConfig(t, stanzaDir))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config validation failed: %v", err)
	}
	ifaces, err := cfg.BuildInterfaces()
	if err != nil {
		t.Fatalf("Failed to build interfaces: %v", err)
	}

	store := ifupdown.NewStore(file.NewManagerAdapter())
	managers := make(map[string]*reconcile.Manager)
	for _, ifaceConfig := range ifaces {
		manager, err := reconcile.NewManager(ifaceConfig, store, nil, 0)
		if err != nil {
			t.Fatalf("Failed to create manager for %s: %v", ifaceConfig.Name, err)
		}
		managers[ifaceConfig.Name] = manager
	}

	t.Run("Initial_Status_Is_OutOfSync", func(t *testing.T) {
		for name, manager := range managers {
			status, err := manager.Status(ctx)
			if err != nil {
				t.Fatalf("%s: status failed: %v", name, err)
			}
			if status != convergence.OutOfSync {
				t.Errorf("%s: expected %s before first apply, got %s", name, convergence.OutOfSync, status)
			}
		}
	})

	t.Run("Converge_Writes_Stanzas", func(t *testing.T) {
		for name, manager := range managers {
			status, err := manager.Converge(ctx)
			if err != nil {
				t.Fatalf("%s: converge failed: %v", name, err)
			}
			if status != convergence.InSync {
				t.Errorf("%s: expected %s after converge, got %s", name, convergence.InSync, status)
			}
		}

		data, err := os.ReadFile(filepath.Join(stanzaDir, "lo"))
		if err != nil {
			t.Fatalf("Failed to read lo stanza: %v", err)
		}
		if !strings.Contains(string(data), "iface lo inet loopback") {
			t.Errorf("Unexpected lo stanza:\n%s", data)
		}

		data, err = os.ReadFile(filepath.Join(stanzaDir, "swp1"))
		if err != nil {
			t.Fatalf("Failed to read swp1 stanza: %v", err)
		}
		for _, want := range []string{"mtu 9000", "bridge-vids 10 20", "mstpctl-bpduguard yes"} {
			if !strings.Contains(string(data), want) {
				t.Errorf("swp1 stanza missing %q:\n%s", want, data)
			}
		}
	})

	t.Run("Drift_Is_Detected_And_Repaired", func(t *testing.T) {
		path := filepath.Join(stanzaDir, "swp1")
		if err := os.WriteFile(path, []byte("auto swp1\niface swp1\n    mtu 1500\n    bridge-vids 10 20\n"), 0644); err != nil {
			t.Fatalf("Failed to edit stanza: %v", err)
		}

		manager := managers["swp1"]
		status, err := manager.Status(ctx)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if status != convergence.OutOfSync {
			t.Fatalf("expected drift to be detected, got %s", status)
		}

		if status, err = manager.Converge(ctx); err != nil || status != convergence.InSync {
			t.Fatalf("expected repair, got status=%s err=%v", status, err)
		}
		if status, err = manager.Status(ctx); err != nil || status != convergence.InSync {
			t.Fatalf("expected insync after repair, got status=%s err=%v", status, err)
		}
	})
}

// TestRejectsInvalidInterface checks that an MLAG peer IP without the rest of its group never
// reaches the convergence engine.
func TestRejectsInvalidInterface(t *testing.T) {
	cfg := &config.Config{
		Interfaces: map[string]map[string]interface{}{
			"swp2": {"clagd_peer_ip": "10.0.0.1"},
		},
	}

	_, err := cfg.BuildInterfaces()
	if !errors.Is(err, iface.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), iface.InvariantMLAGGroup) {
		t.Errorf("error does not name the MLAG invariant: %v", err)
	}
}
