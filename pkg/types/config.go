package types

import "errors"

// Config holds backend selection and parameters for opening a project session.
type Config struct {
	Backend     string `json:"backend" yaml:"backend"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	ProjectFile string `json:"project_file" yaml:"project_file"`
	ReadOnly    bool   `json:"read_only" yaml:"read_only"`

	// SyncStrategy controls when the sqlite backend rewrites its JSONL files.
	// Empty means SyncImmediate.
	SyncStrategy string `json:"sync_strategy" yaml:"sync_strategy"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Sync strategies for the sqlite backend.
const (
	SyncImmediate = "immediate" // rewrite the affected file after every write
	SyncOnClose   = "on_close"  // rewrite dirty files on Detach
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	return nil
}
