package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/policy/internal/app"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [policy.lock.json]",
		Short: "Check that a lock reproduces itself",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ci, _ := cmd.Flags().GetBool("ci")

			opts := app.VerifyOptions{CI: ci}
			if len(args) == 1 {
				opts.LockPath = args[0]
			}

			return c.app.Verify(cmd.Context(), opts)
		},
	}
	cmd.Flags().Bool("ci", false, "Disable colors in phase output")
	return cmd
}
