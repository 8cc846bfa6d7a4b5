package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"homezen/internal/config"
	"homezen/internal/logger"
	"homezen/internal/routing"
	"homezen/internal/telemetry"
	"homezen/internal/web"
)

const serviceName = "homezen"

// Version is set at build time with -ldflags "-X homezen/internal/cli.Version=...".
var Version = "dev"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Property management dashboard for landlords and tenants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		NewServeCommand(),
		NewVersionCommand(),
	)
	return root
}

// serveFlags override the matching environment settings when set.
type serveFlags struct {
	listenAddr string
	apiBaseURL string
	logLevel   string
	logFormat  string
}

func NewServeCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.export(cmd); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.listenAddr, "listen", "l", "", "listen address (overrides LISTEN_ADDR)")
	cmd.Flags().StringVar(&flags.apiBaseURL, "api", "", "backend API base URL (overrides API_BASE_URL)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "text or json (overrides LOG_FORMAT)")
	return cmd
}

// export writes the flags that were set into the environment, where
// they take precedence over the env file.
func (f serveFlags) export(cmd *cobra.Command) error {
	for flag, kv := range map[string][2]string{
		"listen":     {"LISTEN_ADDR", f.listenAddr},
		"api":        {"API_BASE_URL", f.apiBaseURL},
		"log-level":  {"LOG_LEVEL", f.logLevel},
		"log-format": {"LOG_FORMAT", f.logFormat},
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if err := os.Setenv(kv[0], kv[1]); err != nil {
			return fmt.Errorf("%s: %w", flag, err)
		}
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	log := logger.Load(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Version:     Version,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		err = errors.Join(err, shutdown(context.Background()))
	}()

	r, err := routing.NewRouter(routing.Options{
		APIBaseURL:    cfg.APIBaseURL,
		APITimeout:    cfg.APITimeout,
		SessionSecret: cfg.SessionSecret,
		CookieSecure:  cfg.CookieSecure,
		Assets:        web.FS,
		Logger:        log,
	})
	if err != nil {
		return err
	}
	return routing.StartServer(ctx, cfg.ListenAddr, r, log)
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), serviceName, Version)
		},
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
