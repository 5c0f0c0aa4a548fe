package options

import (
	"github.com/spf13/cobra"
)

// AccountOptions captures registration details.
type AccountOptions struct {
	Name   string
	Email  string
	Phone  string
	Skills []string
}

func AddAccountArgs(cmd *cobra.Command, o *AccountOptions) {
	cmd.Flags().StringVarP(&o.Name, "name", "n", "",
		"Full name.")
	cmd.Flags().StringVarP(&o.Email, "email", "e", "",
		"Email address, the unique login.")
	cmd.Flags().StringVar(&o.Phone, "phone", "",
		"Phone number.")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
}

func AddSkillsArg(cmd *cobra.Command, o *AccountOptions) {
	cmd.Flags().StringSliceVar(&o.Skills, "skills", nil,
		"Comma separated skills, example: --skills=network,printers.")
}
