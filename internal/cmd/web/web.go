// Package web wires the web service command line: configuration from the
// environment, flag overrides and the serve, routes and token commands.
package web

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/civicspace/agora/internal/platform/cmd"
	platformgrpc "github.com/civicspace/agora/internal/platform/grpc"
	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/services/web"
	"github.com/civicspace/agora/internal/services/web/app"
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/authsession"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every web service environment variable.
const EnvPrefix = "AGORA_WEB_"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:"localhost:8080"`
	BackendAddr         string        `env:"BACKEND_ADDR"`
	AuthBaseURL         string        `env:"AUTH_BASE_URL" envDefault:"http://localhost:8084"`
	SessionSecret       string        `env:"SESSION_SECRET"`
	SessionIssuer       string        `env:"SESSION_ISSUER" envDefault:"agora-auth"`
	CookieSecret        string        `env:"COOKIE_SECRET"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO"`
	GRPCDialTimeout     time.Duration `env:"GRPC_DIAL_TIMEOUT" envDefault:"2s"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDev              bool          `env:"LOG_DEV"`
}

// LoadConfig reads the configuration from AGORA_WEB_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, EnvPrefix); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewRootCommand builds the web command tree over cfg. Flags override the
// environment values already in cfg. Running the root command serves.
func NewRootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "web",
		Short:         "Serve the Agora web frontend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), *cfg)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	flags.StringVar(&cfg.BackendAddr, "backend-addr", cfg.BackendAddr, "Backend gRPC address (empty serves degraded pages)")
	flags.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth service HTTP base URL")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.LogDev, "log-dev", cfg.LogDev, "Use the development log encoder")

	root.AddCommand(newServeCommand(cfg), newRoutesCommand(cfg), newTokenCommand(cfg))
	return root
}

func newServeCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), *cfg)
		},
	}
}

func newRoutesCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := web.NewHandler(serverConfig(*cfg, nil, zap.NewNop()))
			if err != nil {
				return err
			}
			WriteRoutes(cmd.OutOrStdout(), handler.Routes)
			return nil
		},
	}
}

// WriteRoutes renders the route table.
func WriteRoutes(w io.Writer, routes []app.RouteInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Method", "Pattern", "Class", "Module", "View"})
	for _, route := range routes {
		t.AppendRow(table.Row{route.Method, route.Pattern, route.Class, route.Module, route.PageKey})
	}
	t.Render()
}

func newTokenCommand(cfg *Config) *cobra.Command {
	var (
		userID string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development session token",
		Long: `Issue a session token signed with AGORA_WEB_SESSION_SECRET.

The auth service issues real tokens. This command exists for local
development: set the printed value as the web_session cookie.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := authsession.Issue(
				authsession.Config{Secret: cfg.SessionSecret, Issuer: cfg.SessionIssuer},
				requestctx.Principal{UserID: strings.TrimSpace(userID), DisplayName: strings.TrimSpace(name)},
				ttl,
			)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id carried as the token subject")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// Run starts the web server with telemetry until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Development: cfg.LogDev, Service: entrypoint.ServiceWeb})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		client, closeBackend := dialBackend(ctx, cfg, logger)
		defer closeBackend()

		server, err := web.NewServer(serverConfig(cfg, client, logger))
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

// dialBackend connects to the backend. A blank address or a failed health
// check leaves the client nil, which serves degraded pages.
func dialBackend(ctx context.Context, cfg Config, logger *zap.Logger) (*backend.Client, func()) {
	addr := strings.TrimSpace(cfg.BackendAddr)
	if addr == "" {
		logger.Warn("backend address not configured")
		return nil, func() {}
	}
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, cfg.GRPCDialTimeout, logger, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		logger.Warn("backend unavailable", zap.String("addr", addr), zap.Error(err))
		return nil, func() {}
	}
	return backend.NewClient(conn), func() { _ = conn.Close() }
}

func serverConfig(cfg Config, client *backend.Client, logger *zap.Logger) web.Config {
	var cookieSecret []byte
	if secret := strings.TrimSpace(cfg.CookieSecret); secret != "" {
		cookieSecret = []byte(secret)
	}
	return web.Config{
		HTTPAddr:            cfg.HTTPAddr,
		AuthBaseURL:         cfg.AuthBaseURL,
		SessionSecret:       cfg.SessionSecret,
		SessionIssuer:       cfg.SessionIssuer,
		CookieSecret:        cookieSecret,
		TrustForwardedProto: cfg.TrustForwardedProto,
		Backend:             client,
		Logger:              logger,
	}
}
