package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/commands/options"
	runner "tableflip.dev/helpdesk/pkg/runner/account"
	"tableflip.dev/helpdesk/pkg/runner/get"
	"tableflip.dev/helpdesk/pkg/runner/report"
)

func addClient(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Register and log in as a client.",
	}

	addClientRegister(cmd)
	addLogin(cmd, account.RoleClient)
	addLogout(cmd)
	addWhoAmI(cmd)
	addClientTickets(cmd)
	addClientMetrics(cmd)

	topLevel.AddCommand(cmd)
}

func addClientRegister(topLevel *cobra.Command) {
	ao := &options.AccountOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a client account and log in.",
		Example: `
helpdesk client register --name "Xavier" --email x@y.com --phone 555-0100
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Register{
				Role:     account.RoleClient,
				Name:     ao.Name,
				Email:    ao.Email,
				Phone:    ao.Phone,
				Helpdesk: h,
				Out:      outOf(cmd),
				JSON:     oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddAccountArgs(cmd, ao)

	topLevel.AddCommand(cmd)
}

func addLogin(topLevel *cobra.Command, role account.Role) {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in with a registered email.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Login{
				Role:     role,
				Email:    args[0],
				Helpdesk: h,
				Out:      outOf(cmd),
				JSON:     oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Logout{Helpdesk: h, Out: outOf(cmd)}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoAmI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.WhoAmI{Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}

func addClientTickets(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tickets [email]",
		Short: "List the tickets of a client, the logged in one by default.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := get.Get{Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			if len(args) == 1 {
				s.Filter.ClientEmail = args[0]
			} else {
				s.Mine = true
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}

func addClientMetrics(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "metrics [email]",
		Short: "Count the tickets of a client by status.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			email := ""
			if len(args) == 1 {
				email = args[0]
			} else {
				sess, err := h.Session(ctx)
				if err != nil {
					return oo.HandleError(err)
				}
				if sess == nil || sess.Client == nil {
					return oo.HandleError(errors.New("log in as a client or pass an email"))
				}
				email = sess.Client.Email
			}
			s := report.Metrics{ClientEmail: email, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
