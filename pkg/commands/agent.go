package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/commands/options"
	runner "tableflip.dev/helpdesk/pkg/runner/account"
	"tableflip.dev/helpdesk/pkg/runner/get"
)

func addAgent(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage support agents and log in as one.",
	}

	addAgentRegister(cmd)
	addLogin(cmd, account.RoleAgent)
	addLogout(cmd)
	addWhoAmI(cmd)
	addAgentList(cmd)
	addAgentActivate(cmd, "activate", true)
	addAgentActivate(cmd, "deactivate", false)
	addAgentTickets(cmd)

	topLevel.AddCommand(cmd)
}

func addAgentRegister(topLevel *cobra.Command) {
	ao := &options.AccountOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Add an agent and log in as them.",
		Example: `
helpdesk agent register --name "Diego" --email diego@soporte.com --skills network,printers
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Register{
				Role:     account.RoleAgent,
				Name:     ao.Name,
				Email:    ao.Email,
				Phone:    ao.Phone,
				Skills:   ao.Skills,
				Helpdesk: h,
				Out:      outOf(cmd),
				JSON:     oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddAccountArgs(cmd, ao)
	options.AddSkillsArg(cmd, ao)

	topLevel.AddCommand(cmd)
}

func addAgentList(topLevel *cobra.Command) {
	activeOnly := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List agents.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Agents{ActiveOnly: activeOnly, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only agents that take assignments.")

	topLevel.AddCommand(cmd)
}

func addAgentActivate(topLevel *cobra.Command, use string, active bool) {
	short := "Let an agent take assignments again."
	if !active {
		short = "Stop assigning tickets to an agent."
	}

	cmd := &cobra.Command{
		Use:   use + " <agent id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := runner.Activate{AgentID: args[0], Active: active, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: agentCompletions,
	}

	topLevel.AddCommand(cmd)
}

func addAgentTickets(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tickets [agent id]",
		Short: "List the tickets assigned to an agent, the logged in one by default.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := get.Get{Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			if len(args) == 1 {
				s.Filter.AgentID = args[0]
			} else {
				s.Mine = true
			}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: agentCompletions,
	}

	topLevel.AddCommand(cmd)
}
