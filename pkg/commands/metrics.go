package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/commands/options"
	"tableflip.dev/helpdesk/pkg/runner/report"
)

func addMetrics(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	client := ""

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Agent workload and resolution rates, or ticket counts for one client.",
		Example: `
helpdesk metrics
helpdesk metrics --client x@y.com
helpdesk metrics --month 2025-3
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := mo.GetMonth(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := report.Metrics{
				ClientEmail: client,
				Month:       month,
				Helpdesk:    h,
				Out:         outOf(cmd),
				JSON:        oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Count the tickets of this client email instead.")
	options.AddMonthArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
