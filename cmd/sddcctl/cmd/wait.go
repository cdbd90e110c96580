package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaroslav/sddcctl/sdk"
)

func (a *app) newWaitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for a task to finish",
		Long: `Poll an existing task every --interval until it is FINISHED, FAILED or
CANCELED. The command fails unless the task finishes successfully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := a.v.GetString("task")
			if taskID == "" {
				return fmt.Errorf("%w: missing --task", sdk.ErrInvalidConfig)
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), a.v.GetString("output"))
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			task, waitErr := a.waitTask(ctx, client, p, a.v.GetString("org"), taskID)
			if task != nil {
				if err := p.document(task); err != nil {
					return err
				}
			}
			return waitErr
		},
	}

	cmd.Flags().String("task", "", "task id to wait for (required)")
	return cmd
}
