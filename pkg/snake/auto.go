// Package snake walks a cobra command tree with interactive prompts.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Run lets the user pick a subcommand of cmd, answer its flags and
// arguments, and then runs it.
func Run(cmd *cobra.Command) error {
	next, err := PromptNext(cmd)
	if err != nil {
		return err
	}
	if err := PromptFlags(next); err != nil {
		return err
	}
	args, err := PromptArgs(next)
	if err != nil {
		return err
	}
	if err := next.ValidateArgs(args); err != nil {
		return err
	}
	if next.RunE != nil {
		return next.RunE(next, args)
	}
	if next.Run != nil {
		next.Run(next, args)
		return nil
	}
	return next.Help()
}

// PromptNext selects subcommands until it reaches a runnable leaf.
func PromptNext(cmd *cobra.Command) (*cobra.Command, error) {
	subcommands := make([]*cobra.Command, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		if c.Hidden || !c.IsAvailableCommand() || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		subcommands = append(subcommands, c)
	}
	if len(subcommands) == 0 {
		return cmd, nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
		Inactive: "   {{ .Name }} {{ .Short | cyan }}",
		Selected: "{{ .Use | bold }}",
		Details: `
--------- Details ----------
{{ .Long }}
`,
	}

	searcher := func(input string, index int) bool {
		subcommand := subcommands[index]
		name := strings.Replace(strings.ToLower(subcommand.Name()+subcommand.Short), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)

		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Commands",
		Items:     subcommands,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	next := subcommands[i]
	if next.HasAvailableSubCommands() && next.RunE == nil && next.Run == nil {
		return PromptNext(next)
	}
	return next, nil
}

// PromptFlags lets the user set the local flags of cmd until they choose
// to continue.
func PromptFlags(cmd *cobra.Command) error {
	var fs []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		fs = append(fs, f)
	})
	if len(fs) == 0 {
		return nil
	}

	fs = append(fs, &pflag.Flag{
		Name:   "Continue...",
		Hidden: true,
		Value:  &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }} flags?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | green | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }}{{ end }}",
		Details: `
--------- Details ----------
current: {{ .Value.String }}
type: {{ .Value.Type }}
`,
	}

	searcher := func(input string, index int) bool {
		f := fs[index]
		name := strings.Replace(strings.ToLower(f.Name), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)

		return strings.Contains(name, input)
	}

	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     cmd.Name(),
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher,
			Stdin:     io.NopCloser(cmd.InOrStdin()),
			Stdout:    NopCloser(cmd.OutOrStdout()),
		}

		i, _, err := prompt.Run()
		if err != nil {
			return err
		}
		index = i

		var value string
		switch t := fs[i].Value.Type(); t {
		case "continue":
			return nil
		case "bool":
			value, err = PromptFlagBool(cmd, fs[i])
		case "string", "int", "int64", "stringSlice":
			value, err = PromptFlagString(cmd, fs[i])
		default:
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%q flag type not supported interactively\n", t)
			continue
		}
		if err != nil {
			return err
		}
		if err := cmd.Flags().Set(fs[i].Name, value); err != nil {
			return err
		}
	}
}

// PromptArgs asks for positional arguments when the command usage names
// any.
func PromptArgs(cmd *cobra.Command) ([]string, error) {
	use := strings.TrimSpace(strings.TrimPrefix(cmd.Use, cmd.Name()))
	if use == "" {
		return nil, nil
	}
	required := strings.Contains(use, "<")

	prompt := promptui.Prompt{
		Label: use,
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return errors.New("required")
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	result, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return strings.Fields(result), nil
}

type continueType struct{}

func (*continueType) String() string {
	return "continue"
}

func (*continueType) Set(string) error {
	return nil
}

func (*continueType) Type() string {
	return "continue"
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser wraps w with a no-op Close.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
