package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
	"github.com/leapstack-labs/leapprose/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP lint server",
		Long: `Start an HTTP server exposing the lint engine.

Endpoints:
  POST /lint          Lint one text
  POST /lint/count    Count findings in one text
  POST /lint/batch    Lint a JSON array of texts
  GET  /checks        List checks
  GET  /checks/{id}   Show one check
  POST /warm          Compile every check
  GET  /events        Server-sent config reload events
  GET  /metrics       Prometheus metrics
  GET  /health        Liveness probe

With --watch-config, leapprose.yaml is reloaded when it changes.
Requests in flight finish on the engine they started with.`,
		Example: `  # Start on the default address
  leapprose serve

  # Listen on all interfaces, reloading config on change
  leapprose serve --addr :8484 --watch-config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Read through the config loader (serve.addr, serve.watch, serve.concurrency)
	cmd.Flags().String("addr", config.DefaultAddr, "Address to listen on")
	cmd.Flags().Bool("watch-config", false, "Reload the config file when it changes")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Parallel workers for batch requests")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd, "")
	if err != nil {
		return err
	}
	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	serveCfg := cmdCtx.Cfg.GetServeConfig()
	configPath := config.GetConfigFileUsed()
	if serveCfg.Watch && configPath == "" {
		return fmt.Errorf("--watch-config needs a config file; none was found")
	}

	srv := server.New(server.Config{
		Addr:            serveCfg.Addr,
		Engine:          eng,
		ConfigPath:      configPath,
		Watch:           serveCfg.Watch,
		Concurrency:     serveCfg.Concurrency,
		ShutdownTimeout: serveCfg.ShutdownTimeout,
		Logger:          cmdCtx.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Println(fmt.Sprintf("Serving %d checks on http://%s", eng.Active().Len(), serveCfg.Addr))
	cmdCtx.Renderer.Muted("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx)
}
