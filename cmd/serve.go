package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ipxplorer/internal/config"
	"ipxplorer/internal/engine"
	"ipxplorer/internal/explorer"
	"ipxplorer/internal/log"
	"ipxplorer/internal/reference"
	"ipxplorer/internal/render"
	"ipxplorer/internal/server"
)

const shutdownTimeout = 5 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the explorer web server",
	Long: `
Start the explorer web server.

Examples:
  ipxplorer serve                      # listen on :8080 with defaults
  ipxplorer serve -p 9000              # listen on :9000
  ipxplorer serve -c ipxplorer.yml     # load settings from a config file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid --port")
			}
		}
		if err := log.Init(cfg.Log); err != nil {
			return err
		}

		reg, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		rnd, err := render.New()
		if err != nil {
			return err
		}
		eng := engine.New(reg,
			engine.WithMaxSessions(cfg.Session.MaxSessions),
			engine.WithIdleTimeout(cfg.Session.IdleTimeout),
		)

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			WriteTimeout:   cfg.Server.WriteTimeout,
			PongWait:       cfg.Server.PongWait,
		}, eng, rnd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go eng.Run(ctx)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return errors.Wrap(err, "server stopped")
		case <-ctx.Done():
		}

		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return <-errCh
	},
}

func buildRegistry(cfg *config.Config) (*explorer.Registry, error) {
	catalog, err := reference.Load()
	if err != nil {
		return nil, err
	}
	return explorer.NewRegistry(catalog, cfg.ThemeOverrides())
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "HTTP server port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
