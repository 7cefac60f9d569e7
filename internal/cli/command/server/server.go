package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// HandlerProvider builds the REST router.
type HandlerProvider func(ctx context.Context) (http.Handler, error)

type ServeCommand struct {
	handlers HandlerProvider
}

func NewServeCommand(handlers HandlerProvider) *ServeCommand {
	return &ServeCommand{handlers: handlers}
}

func (c *ServeCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("cmd_serve_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   t.GetMessage("flag_port_usage", 0, nil),
				Value:   cfg.Port,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.serve(ctx, cfg, cmd.String("port"))
		},
	}
}

// serve runs until ctx is cancelled or the process gets SIGINT/SIGTERM, then drains in-flight requests.
func (c *ServeCommand) serve(ctx context.Context, cfg *config.Config, port string) error {
	// OTel goes first: the otel log format reads the global provider.
	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("failed to initialize otel: %w", err)
	}
	setupLogger(cfg, tel != nil)

	if tel != nil {
		logger.Info(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		logger.Info(ctx, "otel disabled (no endpoint configured)")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, err := c.handlers(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// PR creation waits on three model calls and the diff
		WriteTimeout: 3*cfg.HTTP.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server starting", "port", port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error(ctx, "http server error", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http server shutdown error", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "otel shutdown error", err)
	}

	logger.Info(shutdownCtx, "shutdown complete")
	return nil
}

// setupLogger picks OTel export in production when a collector is configured, JSON in other deployed
// environments, and text locally.
func setupLogger(cfg *config.Config, otelEnabled bool) {
	format := logger.FormatText
	switch {
	case cfg.IsProduction() && otelEnabled:
		format = logger.FormatOTel
	case !cfg.IsDevelopment():
		format = logger.FormatJSON
	}

	logger.Setup(logger.Options{
		Level:       cfg.LogLevel,
		Format:      format,
		Output:      os.Stdout,
		ServiceName: cfg.OTel.ServiceName,
	})
}

// StdioServer is the MCP transport.
type StdioServer interface {
	Serve(ctx context.Context, in io.Reader, out io.Writer) error
}

type StdioServerProvider func(ctx context.Context) (StdioServer, error)

type MCPCommand struct {
	servers StdioServerProvider
	in      io.Reader
	out     io.Writer
}

// NewMCPCommand serves on in/out; nil means the process stdin/stdout.
func NewMCPCommand(servers StdioServerProvider, in io.Reader, out io.Writer) *MCPCommand {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &MCPCommand{servers: servers, in: in, out: out}
}

func (c *MCPCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: t.GetMessage("cmd_mcp_usage", 0, nil),
		Action: func(ctx context.Context, _ *cli.Command) error {
			srv, err := c.servers(ctx)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Serve(ctx, c.in, c.out); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
