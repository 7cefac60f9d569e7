package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/matepr/internal/cli/command/server"
	"github.com/thomas-vilte/matepr/internal/cli/command/tool"
	"github.com/thomas-vilte/matepr/internal/cli/registry"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/di"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/version"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp() (*cli.Command, error) {
	cfg, err := config.Load(configPathFromArgs(os.Args[1:]))
	if err != nil {
		return nil, err
	}

	// stdout belongs to command output (and to protocol frames under mcp); serve installs its own logger
	logger.Setup(logger.Options{
		Level:  cfg.LogLevel,
		Format: logger.FormatPretty,
		Output: os.Stderr,
	})

	translations, err := i18n.NewTranslations(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	container := di.NewContainer(cfg, translations)

	executor := func(ctx context.Context) (tool.Executor, error) {
		return container.GetDispatcher(ctx)
	}
	router := func(ctx context.Context) (http.Handler, error) {
		return container.GetRouter(ctx)
	}
	mcpServer := func(ctx context.Context) (server.StdioServer, error) {
		return container.GetMCPServer(ctx, slog.Default())
	}

	registerCommand := registry.NewRegistry(cfg, translations)
	factories := map[string]registry.CommandFactory{
		"serve":     server.NewServeCommand(router),
		"mcp":       server.NewMCPCommand(mcpServer, os.Stdin, os.Stdout),
		"create-pr": tool.NewCreatePRCommand(executor, os.Stdout),
		"summarize": tool.NewSummarizeCommand(executor, os.Stdout),
		"ticket":    tool.NewTicketCommand(executor, os.Stdout),
		"repo-info": tool.NewRepoInfoCommand(executor, os.Stdout),
	}
	for name, factory := range factories {
		if err := registerCommand.Register(name, factory); err != nil {
			return nil, fmt.Errorf("error registering command %q: %w", name, err)
		}
	}

	return &cli.Command{
		Name:        "matepr",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.FullVersion(),
		Description: translations.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   translations.GetMessage("cmd_config_usage", 0, nil),
			},
		},
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, nil
}

// configPathFromArgs reads --config before the command tree exists, since the configuration decides the language
// of the help text.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case (arg == "--config" || arg == "-c") && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
