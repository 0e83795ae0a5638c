//nolint:gochecknoglobals
package database

import (
	"sync"

	"github.com/google/uuid"
)

// Installer - automock installer invoked with every newly constructed
// Connection. Installers typically replace the connection's driver
// handle via SetClient so queries never reach a live database.
type Installer func(*Connection)

// Process-wide state. The automock slot is set rarely (test setup) and
// read once per connection construction, never mutated during
// steady-state query traffic.
var (
	stateMu           sync.RWMutex
	automockInstaller Installer
	instanceId        = defaultInstanceId()
)

func defaultInstanceId() string {
	return uuid.NewString()
}

// SetAutomock - install an automock installer. A nil installer clears
// the slot. Replaces any previously installed installer atomically.
func SetAutomock(installer Installer) {
	stateMu.Lock()
	defer stateMu.Unlock()

	automockInstaller = installer
}

// GetAutomock - the currently installed automock installer, or nil.
func GetAutomock() Installer {
	stateMu.RLock()
	defer stateMu.RUnlock()

	return automockInstaller
}

// SetInstanceId - set the id identifying the running process/build.
// Stamped on every connection constructed afterwards.
func SetInstanceId(id string) {
	stateMu.Lock()
	defer stateMu.Unlock()

	instanceId = id
}

// InstanceId - the current process/module instance id.
func InstanceId() string {
	stateMu.RLock()
	defer stateMu.RUnlock()

	return instanceId
}

// ResetAutomockAndState - clear the automock slot and restore a fresh
// instance id. Idempotent. Intended to be called between independent
// test runs to avoid cross-test leakage.
func ResetAutomockAndState() {
	stateMu.Lock()
	defer stateMu.Unlock()

	automockInstaller = nil
	instanceId = defaultInstanceId()
}
