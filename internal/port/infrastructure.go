// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -destination=../mock/mock_infrastructure.go -package=mock golang-ifupdown/internal/port NetworkManager,FileManager

import (
	"github.com/vishvananda/netlink"
)

// NetworkManager is a port for kernel network interface lookups.
// This interface abstracts netlink operations.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile writes data to a file with specified permissions
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool

	// MkdirAll creates a directory and any missing parents
	MkdirAll(path string, perm int) error
}
