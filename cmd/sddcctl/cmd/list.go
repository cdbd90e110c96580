package cmd

import (
	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the SDDCs of the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			sddcs, err := client.ListSDDCs(ctx, a.v.GetString("org"))
			if err != nil {
				return err
			}

			for i := range sddcs {
				p.textf("%s %s %s", sddcs[i].Name, sddcs[i].DeletionID(), sddcs[i].SDDCState)
			}
			return p.document(sddcs)
		},
	}
}
