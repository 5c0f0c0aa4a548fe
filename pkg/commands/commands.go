package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/commands/options"
	"tableflip.dev/helpdesk/pkg/snake"
	"tableflip.dev/helpdesk/pkg/store"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "helpdesk",
		Short: base.Wrap80("Support tickets, clients and agents on the command line."),
		Long: base.Wrap80("helpdesk keeps a local store of support tickets together with the clients " +
			"who report them and the agents who resolve them. Every change is written to disk " +
			"immediately; when several processes share a store the last write wins."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return oo.HandleError(snake.Run(cmd))
			}
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, oo)
	options.InteractiveArgs(cmd, i)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addClient(topLevel)
	addAgent(topLevel)
	addTicket(topLevel)
	addMetrics(topLevel)
	addExport(topLevel)
	addWatch(topLevel)
	addBoard(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// backend is an opened store plus the helpdesk loaded from it.
type backend struct {
	Config      store.Config
	Logger      *slog.Logger
	Persistence store.Persistence
	Helpdesk    *app.Service
}

func loadBackend(ctx context.Context) (*backend, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := store.NewLogger(cfg)
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	h, err := app.Open(ctx, p, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("helpdesk opened", "path", cfg.BasePath())
	return &backend{Config: cfg, Logger: logger, Persistence: p, Helpdesk: h}, nil
}

func loadHelpdesk(ctx context.Context) (*app.Service, error) {
	b, err := loadBackend(ctx)
	if err != nil {
		return nil, err
	}
	return b.Helpdesk, nil
}

// contextOf is the command context, which is unset when a command is run
// from the interactive picker.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outOf keeps colour handling on the real terminal and writes plainly to
// any other configured output.
func outOf(cmd *cobra.Command) io.Writer {
	if w := cmd.OutOrStdout(); w != os.Stdout {
		return w
	}
	return color.Output
}
