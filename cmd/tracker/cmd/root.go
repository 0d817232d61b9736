package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/walletkun/jobapp-tracker/internal/config"
	"github.com/walletkun/jobapp-tracker/internal/logger"
	"github.com/walletkun/jobapp-tracker/internal/services"
)

// app is what every subcommand gets after the root has read its config.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	api     *services.APIClient
	tracker *services.TrackerService
}

type rootFlags struct {
	envFile string
	apiURL  string
	timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     = &app{}
	)

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Track job applications against the applications API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "applications API origin (overrides TRACKER_API_URL)")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (overrides TRACKER_REQUEST_TIMEOUT)")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newStatusesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.api = services.NewAPIClient(cfg.APIURL, cfg.RequestTimeout)
	a.tracker = services.NewTrackerService(a.api, cfg.Progress(), log)
	return nil
}
