// Package v1 defines the public data types shared across all Skiff layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Status enumerations
// ─────────────────────────────────────────────────────────────────────────────

// ActiveState is the process manager's reported activity for a unit.
type ActiveState string

const (
	ActiveRunning  ActiveState = "active"
	ActiveInactive ActiveState = "inactive"
	ActiveFailed   ActiveState = "failed"
	ActiveUnknown  ActiveState = "unknown"
)

// HostStatus represents the connectivity state of the deployment target.
type HostStatus string

const (
	HostOnline  HostStatus = "online"
	HostOffline HostStatus = "offline"
)

// ─────────────────────────────────────────────────────────────────────────────
// Specification types (derived from skiff.yaml)
// ─────────────────────────────────────────────────────────────────────────────

// Target identifies the remote endpoint for one deployment session.
// Immutable once loaded.
type Target struct {
	Project string `yaml:"project" mapstructure:"project"` // namespace for unit names
	Host    string `yaml:"host"    mapstructure:"host"`    // ssh destination, may embed a user
	User    string `yaml:"user"    mapstructure:"user"`    // used when Host carries no user
	Key     string `yaml:"key"     mapstructure:"key"`     // private key path
	Port    int    `yaml:"port"    mapstructure:"port"`
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"` // absolute remote root for all services
}

// ServiceSpec is the declarative definition of a deployable unit from skiff.yaml.
type ServiceSpec struct {
	Name        string            `yaml:"name"        mapstructure:"name"`
	Label       string            `yaml:"label"       mapstructure:"label"`
	Command     string            `yaml:"command"     mapstructure:"command"`
	Args        []string          `yaml:"args"        mapstructure:"args"`
	Sync        []SyncMapping     `yaml:"sync"        mapstructure:"sync"`
	Requires    []string          `yaml:"requires"    mapstructure:"requires"`
	Environment map[string]string `yaml:"environment" mapstructure:"environment"`
}

// SyncMapping declares a local-to-remote path pair. Skiff records these for
// the external sync tool; it never executes them itself.
type SyncMapping struct {
	Local  string `yaml:"local"  mapstructure:"local"`
	Remote string `yaml:"remote" mapstructure:"remote"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Read models (assembled from remote output, never persisted)
// ─────────────────────────────────────────────────────────────────────────────

// Release is one timestamped deployment snapshot under a service's
// releases root. Current is computed by resolving the current symlink.
type Release struct {
	ID      string `json:"id"` // directory name; lexical order == chronological order
	Current bool   `json:"current"`
}

// UnitStatus is a point-in-time snapshot of a service unit, rebuilt on every
// query and discarded after rendering.
type UnitStatus struct {
	Unit      string      `json:"unit"`      // project-namespaced unit name
	Installed bool        `json:"installed"` // service root directory exists
	Loaded    string      `json:"loaded"`    // systemd load state, "no" when unknown
	Active    ActiveState `json:"active"`
	Location  string      `json:"location"` // unit file path, or service dir when unknown
	Reason    string      `json:"reason"`   // set when inactive/failed or the query itself failed
}

// ─────────────────────────────────────────────────────────────────────────────
// Runtime state types (persisted in BoltDB)
// ─────────────────────────────────────────────────────────────────────────────

// HostTrust is the persisted host key record for the deployment target.
type HostTrust struct {
	Host           string    `json:"host"`
	KeyFingerprint string    `json:"key_fingerprint"`
	HostKey        string    `json:"host_key"` // known_hosts-style encoded line
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
}

// OpRecord is an immutable audit record of one deployment operation.
type OpRecord struct {
	ID          string    `json:"id"`
	Op          string    `json:"op"` // install | restart | switch | prune
	Service     string    `json:"service"`
	Release     string    `json:"release,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Result      string    `json:"result"` // success | failure
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
}
