package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/model"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for hris.

To load completions:

Bash:
  $ source <(hris completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ hris completion bash > /etc/bash_completion.d/hris
  # macOS:
  $ hris completion bash > $(brew --prefix)/etc/bash_completion.d/hris

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ hris completion zsh > "${fpath[1]}/_hris"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hris completion fish | source
  # To load completions for each session, execute once:
  $ hris completion fish > ~/.config/fish/completions/hris.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Long:  "Generate the autocompletion script for bash.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletion(os.Stdout)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Long:  "Generate the autocompletion script for zsh.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Long:  "Generate the autocompletion script for fish.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeBranches completes branch ids for 'branch use' from the live list.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	completions := []string{"all\tall branches"}

	sess, err := openSession()
	if err != nil {
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
	snap, err := sess.BranchStatus(commandContext(cmd))
	if err != nil {
		return completions, cobra.ShellCompDirectiveNoFileComp
	}

	toCompleteLower := strings.ToLower(toComplete)
	for _, b := range snap.Branches {
		id := model.FormatBranchID(b.ID)
		if strings.HasPrefix(id, toComplete) || strings.HasPrefix(strings.ToLower(b.DisplayName()), toCompleteLower) {
			completions = append(completions, id+"\t"+b.DisplayName())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
