package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/axiomgfx-dili/internal/app"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

type serveOptions struct {
	host string
	port int
	grpc bool
}

// NewServeCmd runs the API server in the foreground.  It takes the loaded
// configuration, not --server.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	f.IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	f.BoolVar(&opts.grpc, "grpc", false, "enable the gRPC health endpoint (overrides grpc.enabled)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := *cc.Config
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	if cmd.Flags().Changed("grpc") {
		cfg.GRPC.Enabled = opts.grpc
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("log-level") {
		cfg.Log.Level, _ = root.GetString("log-level")
	}
	if cc.Verbose {
		cfg.Log.Level = logging.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid server configuration").WithDetail(err.Error())
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	PrintSuccess(cmd, "serving on "+cfg.Server.Addr())
	return app.ListenAndServe(ctx, &cfg, logger)
}

//Personal.AI order the ending
