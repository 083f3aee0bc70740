// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
)

// NetworkConfigurationManager is the primary port for interface configuration.
// Each manager owns one interface and keeps its persisted configuration converged.
type NetworkConfigurationManager interface {
	// Run converges the interface and keeps re-evaluating it until the context is cancelled.
	Run(ctx context.Context) error

	// GetInterfaceName returns the name of the network interface managed by this manager.
	GetInterfaceName() string
}
