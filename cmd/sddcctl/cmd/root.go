// Package cmd implements the sddcctl command line.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/sdk"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// envPrefix is prepended to every flag name to form its environment variable.
const envPrefix = "SDDCCTL"

// app carries the state shared by one command tree.
type app struct {
	v      *viper.Viper
	logger *zap.Logger

	// ownLogger is set when setup built the logger and must sync it.
	ownLogger bool
}

// Execute builds the command tree and runs it with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand returns the sddcctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCmd(&app{v: viper.New()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sddcctl",
		Short: "sddcctl - create and remove VMware Cloud SDDCs",
		Long: `sddcctl drives the SDDC lifecycle on VMware Cloud on AWS.

Without --remove it creates one SDDC from the create flags and prints the
provisioning task status. With --remove true it deletes SDDCs of the
organization. Every run exchanges the refresh token for a fresh access token.

Note that --remove deletes every SDDC in the organization unless --match-name
is given. --remove only accepts a true value, and neither it nor --match-name
is read from the environment or the config file.

Flags can also be set through SDDCCTL_* environment variables (for example
SDDCCTL_RTOKEN) and, except for the refresh token, through a YAML file given
with --config.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runLifecycle,
	}

	pf := root.PersistentFlags()
	pf.StringP("csp", "c", sdk.DefaultCSPURL, "CSP host")
	pf.String("vmc", sdk.DefaultVMCURL, "VMC API host")
	pf.StringP("rtoken", "t", "", "refresh token (required)")
	pf.StringP("org", "o", "", "organization id (required)")
	pf.Duration("interval", 60*time.Second, "task poll interval")
	pf.Duration("timeout", 0, "overall deadline for the command, 0 means none")
	pf.Float64("rate-limit", 5, "maximum API requests per second, negative disables the limit")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", string(logging.FormatConsole), "log format (console, json)")
	pf.String("output", outputText, "result format (text, json, yaml)")
	pf.String("config", "", "optional YAML file with flag defaults")

	f := root.Flags()
	f.StringP("name", "n", "", "SDDC name")
	f.StringP("cidr", "m", "", "management CIDR")
	f.StringP("subnet_id", "s", "", "customer subnet id")
	f.StringP("provider", "p", "", "cloud provider (e.g. AWS)")
	f.StringP("region", "g", "", "region (e.g. US_WEST_2)")
	f.Int("numhost", 0, "number of hosts")
	f.StringP("networksegment", "w", "", "compute network segment (vxlan subnet)")
	f.StringP("remove", "r", "", "remove SDDCs instead of creating one (must be true, e.g. 1)")
	f.Bool("match-name", false, "with --remove, delete only the SDDC named --name")
	f.Bool("wait", false, "wait for the started tasks to finish")

	root.AddCommand(
		a.newWaitCmd(),
		a.newListCmd(),
		newVersionCmd(),
		a.newSimulateCmd(),
	)

	return root
}

// setup layers flags, environment and the optional config file, then builds
// the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: failed to read config file: %w", sdk.ErrInvalidConfig, err)
		}
		if a.v.InConfig("rtoken") {
			return fmt.Errorf("%w: the refresh token cannot be set in the config file, use --rtoken or %s_RTOKEN",
				sdk.ErrInvalidConfig, envPrefix)
		}
	}

	if a.logger == nil {
		logger, err := logging.NewLogger(logging.Config{
			Level:            a.v.GetString("log-level"),
			Format:           logging.Format(a.v.GetString("log-format")),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		})
		if err != nil {
			return fmt.Errorf("%w: failed to initialize logger: %w", sdk.ErrInvalidConfig, err)
		}
		a.logger = logger
		a.ownLogger = true
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.ownLogger {
		_ = a.logger.Sync()
	}
}

// withTimeout applies --timeout to ctx.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := a.v.GetDuration("timeout"); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// requireSession checks the flags every API command needs.
func (a *app) requireSession() error {
	var missing []string
	if a.v.GetString("rtoken") == "" {
		missing = append(missing, "--rtoken")
	}
	if a.v.GetString("org") == "" {
		missing = append(missing, "--org")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", sdk.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// newClient builds an SDK client and authorizes it.
func (a *app) newClient(ctx context.Context) (*sdk.Client, error) {
	client, err := sdk.NewClient(sdk.ClientConfig{
		CSPURL:            a.v.GetString("csp"),
		VMCURL:            a.v.GetString("vmc"),
		RefreshToken:      a.v.GetString("rtoken"),
		RequestsPerSecond: a.v.GetFloat64("rate-limit"),
		Logger:            a.logger,
	})
	if err != nil {
		return nil, err
	}

	if _, err := client.Authorize(ctx); err != nil {
		return nil, err
	}
	a.logger.Debug("Authorized", zap.String("csp", client.CSPURL))

	return client, nil
}
