// Package sqlite implements a persistent project session on SQLite. JSONL
// files in the data directory are the source of truth; the SQLite database is
// rebuilt from them on every attach and answers the queries.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lexfields/internal/project"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// dbFile is the SQLite database name inside DataDir.
const dbFile = "project.db"

var (
	_ types.Session       = (*Backend)(nil)
	_ types.ValueStore    = (*Backend)(nil)
	_ types.ObjectCreator = (*Backend)(nil)
)

// Backend is a project session backed by SQLite and JSONL files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB

	// dirty holds tables whose JSONL file is stale under SyncOnClose.
	dirty map[string]bool
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{dirty: make(map[string]bool)}
}

// Attach opens the data directory described by config. The SQLite file is
// recreated and loaded from the JSONL files. On the first attach of an empty
// data directory the schema and objects are seeded from config.ProjectFile.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%q: %w", config.Backend, types.ErrBackendUnknown)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	seeded, err := isSeeded(db)
	if err != nil {
		db.Close()
		return err
	}
	if !seeded {
		if err := seedFromFile(db, dataDir, config); err != nil {
			db.Close()
			return err
		}
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.dirty = make(map[string]bool)
	b.attached = true

	zap.L().Info("attached sqlite session",
		zap.String("data_dir", dataDir),
		zap.Bool("read_only", config.ReadOnly),
		zap.String("sync", config.SyncStrategy))
	return nil
}

func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

func seedFromFile(db *sql.DB, dataDir string, config types.Config) error {
	if config.ProjectFile == "" {
		return fmt.Errorf("data directory %s is not initialized and no project file is configured: %w",
			dataDir, types.ErrInvalidProject)
	}
	if config.ReadOnly {
		return fmt.Errorf("data directory %s is not initialized: %w", dataDir, types.ErrReadOnlyProject)
	}
	p, err := project.LoadFile(config.ProjectFile)
	if err != nil {
		return err
	}
	return seedProject(db, dataDir, p)
}

// Detach writes any pending JSONL files and closes the database. After
// Detach every operation returns ErrSessionDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	zap.L().Info("detached sqlite session", zap.String("data_dir", b.dataDir))
	return nil
}

// Flush writes every table changed since the last flush. It is a no-op under
// SyncImmediate.
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrSessionDetached
	}
	return b.flushLocked()
}

func (b *Backend) flushLocked() error {
	for _, m := range jsonlTableMapping {
		if !b.dirty[m.table] {
			continue
		}
		if err := persistTable(b.db, b.dataDir, m.table); err != nil {
			return err
		}
		delete(b.dirty, m.table)
	}
	return nil
}

// persistLocked records that tables changed, writing their JSONL files now
// unless the sync strategy defers them to Detach. The caller holds b.mu.
func (b *Backend) persistLocked(tables ...string) error {
	for _, table := range tables {
		if b.config.SyncStrategy == types.SyncOnClose {
			b.dirty[table] = true
			continue
		}
		if err := persistTable(b.db, b.dataDir, table); err != nil {
			return err
		}
	}
	return nil
}

// readable checks that the backend is attached. The caller holds b.mu.
func (b *Backend) readable() error {
	if !b.attached {
		return types.ErrSessionDetached
	}
	return nil
}

// writable checks that the backend is attached and accepts writes. The
// caller holds b.mu.
func (b *Backend) writable() error {
	if !b.attached {
		return types.ErrSessionDetached
	}
	if b.config.ReadOnly {
		return types.ErrReadOnlyProject
	}
	return nil
}
