package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/lexfields/internal/paths"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyProjectFile  = "project_file"
	cfgKeyReadOnly     = "read_only"
	cfgKeyLogLevel     = "log_level"
	cfgKeySyncStrategy = "sync_strategy"

	envLogLevel = "LEXFIELDS_LOG_LEVEL"

	defaultBackend  = types.BackendSQLite
	defaultLogLevel = "warn"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# lexfields configuration

# Session backend: sqlite or memory.
backend: sqlite

# Project definition used to seed an empty data directory and, for the
# memory backend, to build the session. Relative paths are taken relative
# to this directory.
# project_file: project.yaml

# Data directory (optional; overridable by --data-dir).
# data_dir:

# When the sqlite backend rewrites its JSONL files: immediate or on_close.
sync_strategy: immediate

# debug, info, warn or error.
log_level: warn
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, err
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadSettings resolves the directories and builds the session config from
// flags, config.yaml and the environment.
func (a *app) loadSettings() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysErr(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir), configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve data dir: %w", err))
	}
	projectFile, err := paths.ResolveProjectFile(v.GetString(cfgKeyProjectFile), configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve project file: %w", err))
	}

	a.v = v
	a.configDir = configDir
	a.config = types.Config{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      dataDir,
		ProjectFile:  projectFile,
		ReadOnly:     a.flags.readOnly || v.GetBool(cfgKeyReadOnly),
		SyncStrategy: v.GetString(cfgKeySyncStrategy),
	}
	return a.config.Validate()
}

// newLogger builds a console logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level %q: %w", level, err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
