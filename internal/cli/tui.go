package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/checklist/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive client",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}
}

func runTUI(cmd *cobra.Command, a *app) error {
	if err := a.setup(cmd, true); err != nil {
		return err
	}
	defer a.close()
	return tui.Run(tui.Options{
		Client:  a.client,
		Session: a.sess,
		Logger:  a.logger,
	})
}
