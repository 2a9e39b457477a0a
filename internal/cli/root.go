// Package cli is the command tree. With no subcommand it opens the
// interactive client; the subcommands script the same operations.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

var versionInfo = "dev"

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// flags shared by every command
type flags struct {
	api   string
	theme string
	debug bool
}

// usageError marks bad invocations; they exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// usageArgs tags cobra's argument validation errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// ExitCode maps an error returned by the command tree to a process status.
func ExitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue),
		errors.Is(err, viewmodel.ErrEmptyName),
		errors.Is(err, viewmodel.ErrMissingField):
		return 2
	}
	return 1
}

// Execute runs the CLI
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		ui.Fail(os.Stderr, message(err))
		os.Exit(ExitCode(err))
	}
}

func message(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "session expired or invalid, run `checklist login`"
	}
	return err.Error()
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	a := &app{flags: f}

	root := &cobra.Command{
		Use:   "checklist",
		Short: "Terminal client for the checklist service",
		Long: `checklist - manage your checklists and their items from the terminal

Run without a subcommand to open the interactive client.`,
		Version:       versionInfo,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to TUI if no subcommand specified
			return runTUI(cmd, a)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error { return usageError{err} })

	root.PersistentFlags().StringVar(&f.api, "api", "", "API base URL (overrides config and CHECKLIST_API_URL)")
	root.PersistentFlags().StringVar(&f.theme, "theme", "", "color theme: classic, neon or mono")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "log requests (TUI: debug.log in the config dir, CLI: stderr)")

	root.AddCommand(
		newTUICmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newItemsCmd(a),
		newItemCmd(a),
	)
	return root
}
