package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/tools"
)

// Executor runs one tool of the catalog.
type Executor interface {
	Execute(ctx context.Context, name string, rawArgs json.RawMessage) (tools.Envelope, error)
}

// ExecutorProvider builds the executor on first use so commands like --help never touch the network stack.
type ExecutorProvider func(ctx context.Context) (Executor, error)

type runner struct {
	provider ExecutorProvider
	out      io.Writer
}

func newRunner(provider ExecutorProvider, out io.Writer) runner {
	if out == nil {
		out = os.Stdout
	}
	return runner{provider: provider, out: out}
}

// run prints the formatted response of the tool. A failed envelope is printed too and returned as an error so the
// process exits non-zero.
func (r runner) run(ctx context.Context, t *i18n.Translations, name string, args any) error {
	executor, err := r.provider(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("error encoding tool arguments: %w", err)
	}

	env, err := executor.Execute(ctx, name, raw)
	if formatted, ok := env["formatted_response"].(string); ok && formatted != "" {
		_, _ = fmt.Fprintln(r.out, formatted)
	}
	if err == nil && env.Success() {
		return nil
	}

	msg, _ := env["error"].(string)
	if msg == "" && err != nil {
		msg = err.Error()
	}
	_, _ = fmt.Fprintln(r.out, t.GetMessage("tool_failed", 0, map[string]interface{}{"Error": msg}))
	if suggestion, ok := env["message"].(string); ok && suggestion != "" {
		_, _ = fmt.Fprintln(r.out, t.GetMessage("tool_suggestion", 0, map[string]interface{}{"Suggestion": suggestion}))
	}

	if err != nil {
		return err
	}
	return errors.New(msg)
}

func repoFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "owner",
			Aliases: []string{"o"},
			Usage:   t.GetMessage("flag_owner_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   t.GetMessage("flag_repo_usage", 0, nil),
		},
	}
}

func branchFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "head",
			Usage:    t.GetMessage("flag_head_usage", 0, nil),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "base",
			Usage:    t.GetMessage("flag_base_usage", 0, nil),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "body",
			Aliases: []string{"b"},
			Usage:   t.GetMessage("flag_body_usage", 0, nil),
		},
	}
}

type CreatePRCommand struct {
	runner
}

func NewCreatePRCommand(provider ExecutorProvider, out io.Writer) *CreatePRCommand {
	return &CreatePRCommand{runner: newRunner(provider, out)}
}

func (c *CreatePRCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	flags := append(repoFlags(t), branchFlags(t)...)
	flags = append(flags,
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    t.GetMessage("flag_title_usage", 0, nil),
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "draft",
			Usage: t.GetMessage("flag_draft_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "no-analysis",
			Usage: t.GetMessage("flag_no_analysis_usage", 0, nil),
		},
	)

	return &cli.Command{
		Name:    "create-pr",
		Aliases: []string{"pr"},
		Usage:   t.GetMessage("cmd_create_pr_usage", 0, nil),
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			include := !cmd.Bool("no-analysis")
			return c.run(ctx, t, tools.CreatePullRequest, tools.CreatePullRequestArgs{
				Owner:               cmd.String("owner"),
				Repo:                cmd.String("repo"),
				Title:               cmd.String("title"),
				Head:                cmd.String("head"),
				Base:                cmd.String("base"),
				Body:                cmd.String("body"),
				Draft:               cmd.Bool("draft"),
				IncludeDiffAnalysis: &include,
			})
		},
	}
}

type SummarizeCommand struct {
	runner
}

func NewSummarizeCommand(provider ExecutorProvider, out io.Writer) *SummarizeCommand {
	return &SummarizeCommand{runner: newRunner(provider, out)}
}

func (c *SummarizeCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	flags := append(repoFlags(t), branchFlags(t)...)
	flags = append(flags, &cli.StringFlag{
		Name:    "title",
		Aliases: []string{"t"},
		Usage:   t.GetMessage("flag_title_usage", 0, nil),
	})

	return &cli.Command{
		Name:    "summarize",
		Aliases: []string{"s"},
		Usage:   t.GetMessage("cmd_summarize_usage", 0, nil),
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, t, tools.GeneratePRSummary, tools.GeneratePRSummaryArgs{
				Owner: cmd.String("owner"),
				Repo:  cmd.String("repo"),
				Head:  cmd.String("head"),
				Base:  cmd.String("base"),
				Title: cmd.String("title"),
				Body:  cmd.String("body"),
			})
		},
	}
}

type TicketCommand struct {
	runner
}

func NewTicketCommand(provider ExecutorProvider, out io.Writer) *TicketCommand {
	return &TicketCommand{runner: newRunner(provider, out)}
}

func (c *TicketCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "ticket",
		Usage:     t.GetMessage("cmd_ticket_usage", 0, nil),
		ArgsUsage: "<TICKET-ID>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, t, tools.GetJiraTicketDetails, tools.GetJiraTicketDetailsArgs{
				TicketID: cmd.Args().First(),
			})
		},
	}
}

type RepoInfoCommand struct {
	runner
}

func NewRepoInfoCommand(provider ExecutorProvider, out io.Writer) *RepoInfoCommand {
	return &RepoInfoCommand{runner: newRunner(provider, out)}
}

func (c *RepoInfoCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "repo-info",
		Usage: t.GetMessage("cmd_repo_info_usage", 0, nil),
		Flags: repoFlags(t),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, t, tools.GetRepositoryInfo, tools.GetRepositoryInfoArgs{
				Owner: cmd.String("owner"),
				Repo:  cmd.String("repo"),
			})
		},
	}
}
