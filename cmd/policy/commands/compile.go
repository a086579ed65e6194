package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/policy/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [policy.yml]",
		Short: "Resolve a policy file into a lock",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			ci, _ := cmd.Flags().GetBool("ci")

			opts := app.CompileOptions{
				OutputPath: output,
				NoCache:    noCache,
				CI:         ci,
			}
			if len(args) == 1 {
				opts.PolicyPath = args[0]
			}

			return c.app.Compile(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the lock to this path instead of <policy>.lock.json")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the universe and included policy caches")
	cmd.Flags().Bool("ci", false, "Disable colors in phase output")
	return cmd
}
