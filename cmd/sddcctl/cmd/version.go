package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit, build date, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sddcctl %s\n", Version)
			fmt.Fprintf(w, "Commit: %s\n", Commit)
			fmt.Fprintf(w, "Built: %s\n", BuildDate)
			fmt.Fprintf(w, "Go: %s\n", runtime.Version())
		},
	}
}
