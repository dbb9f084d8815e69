// Package cli implements the lexfields command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	readOnly  bool
}

// app carries the state shared by the commands of one invocation.
type app struct {
	flags     rootFlags
	v         *viper.Viper
	configDir string
	config    types.Config
}

// NewRootCmd creates the top-level "lexfields" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lexfields",
		Short: "Read and write custom fields of a lexical project",
		Long: "lexfields resolves custom fields by class and name and reads or writes\n" +
			"their values on project objects, whatever their storage category.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: .lexfields)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .lexfields-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.readOnly, "read-only", false, "open the project read-only")

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newFieldsCmd(),
		a.newWSCmd(),
		a.newNewCmd(),
		a.newGetCmd(),
		a.newSetCmd(),
		a.newClearCmd(),
		a.newBestCmd(),
		a.newSelectCmd(),
		a.newUnselectCmd(),
		a.newTagCmd(),
		a.newSelectedCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
	)
	return root
}

// Execute runs the CLI on the process arguments and exits with its code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// setup replaces the global logger; put the caller's back afterwards.
	defer zap.ReplaceGlobals(zap.L())()

	err := root.Execute()
	_ = zap.L().Sync()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "lexfields:", err)
	return exitCode(err)
}

// setup loads the configuration and installs the logger before any command
// other than version runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if err := a.loadSettings(); err != nil {
		return err
	}
	logger, err := newLogger(a.v.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// withAccessor opens the configured project, runs fn and closes the project.
func (a *app) withAccessor(fn func(*fields.Accessor) error) error {
	acc, err := fields.Attach(a.config)
	if err != nil {
		return sysErr(fmt.Errorf("opening project: %w", err))
	}
	err = fn(acc)
	if cerr := acc.Close(); cerr != nil {
		err = errors.Join(err, sysErr(fmt.Errorf("closing project: %w", cerr)))
	}
	return err
}

// systemError marks failures of the environment rather than of the request.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// userErrors are the sentinels that describe a bad request.
var userErrors = []error{
	types.ErrNullArgument,
	types.ErrUnknownField,
	types.ErrUnknownWritingSystem,
	types.ErrDuplicateAlternative,
	types.ErrWrongObjectClass,
	types.ErrInvalidListItem,
	types.ErrReadOnlyProject,
	types.ErrCategoryMismatch,
	types.ErrObjectNotFound,
	types.ErrUnknownClass,
	types.ErrInvalidPrecision,
	types.ErrInvalidProject,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
}

// exitCode maps an error to exitUserError or exitSysError. Errors that match
// no known class, such as argument validation errors, are user errors.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	var se *systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
