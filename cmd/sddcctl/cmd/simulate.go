package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/internal/vmcsim"
)

func (a *app) newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an in-memory VMC control plane for dry runs",
		Long: `Serve a local stand-in for the CSP token endpoint and the VMC SDDC API.

Point the other commands at it with --csp and --vmc, for example:

  sddcctl simulate --listen 127.0.0.1:8080
  sddcctl --csp http://127.0.0.1:8080 --vmc http://127.0.0.1:8080 \
    -t sim-refresh-token -o org-1 -n demo -m 10.2.0.0/16 -s subnet-1 \
    -p AWS -g US_WEST_2 --numhost 3 --wait --interval 1s

The refresh token it accepts is --rtoken, or sim-refresh-token when unset.
Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			sim := vmcsim.New(vmcsim.Config{
				RefreshToken:  a.v.GetString("rtoken"),
				PollsToFinish: a.v.GetInt("polls"),
				FailNames:     a.v.GetStringSlice("fail-name"),
				Logger:        a.logger.With(zap.String(logging.FieldComponent, "vmcsim")),

				OrgRequestsPerSecond: a.v.GetFloat64("org-rps"),
			})

			return sim.ListenAndServe(cmd.Context(), a.v.GetString("listen"))
		},
	}

	cmd.Flags().String("listen", ":8080", "address to listen on")
	cmd.Flags().Int("polls", vmcsim.DefaultPollsToFinish, "task polls until a task finishes")
	cmd.Flags().StringSlice("fail-name", nil, "SDDC names whose provisioning fails")
	cmd.Flags().Float64("org-rps", 0, "per-organization request quota, 0 disables it")
	return cmd
}
