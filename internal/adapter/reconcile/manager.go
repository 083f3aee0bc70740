// Package reconcile keeps one interface's persisted configuration converged on its desired state.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/iface"
	"golang-ifupdown/internal/pkg/logging"
	"golang-ifupdown/internal/port"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is how often Run re-evaluates the interface.
const DefaultInterval = 30 * time.Second

// Store observes and applies stanza files.
type Store interface {
	convergence.Observer
	convergence.Applier
}

// Manager is an interface configuration adapter that implements the NetworkConfigurationManager port.
type Manager struct {
	config     *iface.Config
	engine     *convergence.Engine
	networkMgr port.NetworkManager
	interval   time.Duration
}

// Ensure Manager implements the NetworkConfigurationManager port
var _ port.NetworkConfigurationManager = (*Manager)(nil)

// NewManager creates a manager for a validated interface configuration.
func NewManager(ifaceConfig *iface.Config, store Store, networkMgr port.NetworkManager, interval time.Duration) (*Manager, error) {
	engine, err := convergence.NewEngine(ifaceConfig, store, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create convergence engine: %w", err)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Manager{
		config:     ifaceConfig,
		engine:     engine,
		networkMgr: networkMgr,
		interval:   interval,
	}, nil
}

// GetInterfaceName returns the name of the network interface managed by this manager.
func (m *Manager) GetInterfaceName() string {
	return m.config.Name
}

// LastStatus returns the status computed by the most recent evaluation.
func (m *Manager) LastStatus() convergence.SyncStatus {
	return m.engine.Last()
}

// Status evaluates the interface without writing anything. Drift is logged at debug level.
func (m *Manager) Status(ctx context.Context) (convergence.SyncStatus, error) {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)

	status, err := m.engine.Status(ctx)
	if err != nil {
		return status, err
	}
	if status == convergence.OutOfSync {
		m.logDrift(ctx)
	}
	logger.WithField("status", status).Debug("Evaluated interface")
	return status, nil
}

// Converge writes the desired configuration when the interface is out of sync.
func (m *Manager) Converge(ctx context.Context) (convergence.SyncStatus, error) {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name).WithField("path", m.config.Path())

	previous := m.engine.Last()
	status, err := m.engine.Converge(ctx)
	if err != nil {
		return status, err
	}
	if status == convergence.InSync && previous == convergence.OutOfSync {
		logger.Info("Interface converged")
	}
	return status, nil
}

// Run converges the interface and then monitors it, re-converging on drift.
// It runs until the context is cancelled. This method implements the NetworkConfigurationManager port.
func (m *Manager) Run(ctx context.Context) error {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)
	logger.WithField("interval", m.interval.String()).Info("Starting interface reconciliation")

	m.checkLink()
	if err := m.checkAndRepairConfiguration(ctx); err != nil {
		logger.WithError(err).Error("Initial convergence failed")
	}

	return m.monitorInterface(ctx)
}

// monitorInterface re-evaluates the interface on every tick.
func (m *Manager) monitorInterface(ctx context.Context) error {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Interface monitoring stopped due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
			if err := m.checkAndRepairConfiguration(ctx); err != nil {
				logger.WithError(err).Error("Configuration check failed")
			}
		}
	}
}

// checkAndRepairConfiguration detects drift and re-applies the desired configuration.
func (m *Manager) checkAndRepairConfiguration(ctx context.Context) error {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)

	status, err := m.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to evaluate interface: %w", err)
	}
	if status == convergence.InSync {
		return nil
	}

	logger.Warn("Interface configuration out of sync, reapplying")
	if _, err := m.Converge(ctx); err != nil {
		return fmt.Errorf("failed to reapply configuration: %w", err)
	}
	return nil
}

// LinkPresent reports whether the kernel knows the interface. Without a network manager the
// link is assumed present.
func (m *Manager) LinkPresent() bool {
	return m.checkLink()
}

// checkLink looks the interface up in the kernel. A missing link does not stop
// reconciliation: the stanza is picked up when the link appears.
func (m *Manager) checkLink() bool {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)
	if m.networkMgr == nil {
		return true
	}

	link, err := m.networkMgr.GetLinkByName(m.config.Name)
	if err != nil {
		logger.WithError(err).Warn("Interface not present in kernel")
		return false
	}
	attrs := link.Attrs()
	logger.WithFields(map[string]interface{}{
		"mac": attrs.HardwareAddr.String(),
		"mtu": attrs.MTU,
	}).Debug("Found kernel link")
	return true
}

func (m *Manager) logDrift(ctx context.Context) {
	logger := logging.WithComponentAndInterface("reconcile", m.config.Name)
	if !logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	attrs, report, err := m.engine.Drift(ctx)
	if err != nil {
		return
	}
	logger.WithField("attributes", attrs).Debugf("Drift detected:\n%s", report)
}
