package cli

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/floor"
	"github.com/matzehuels/posetrail/pkg/render/preview"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for posetrail.

To load completions:

Bash:
  $ source <(posetrail completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ posetrail completion bash > /etc/bash_completion.d/posetrail
  # macOS:
  $ posetrail completion bash > $(brew --prefix)/etc/bash_completion.d/posetrail

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ posetrail completion zsh > "${fpath[1]}/_posetrail"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ posetrail completion fish | source

  # To load completions for each session, execute once:
  $ posetrail completion fish > ~/.config/fish/completions/posetrail.fish

PowerShell:
  PS> posetrail completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> posetrail completion powershell > posetrail.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// flagValues lists the fixed values of enum-like flags for shell completion.
func flagValues() map[string][]string {
	presets := make([]string, 0, len(camera.ValidPresets))
	for p := range camera.ValidPresets {
		presets = append(presets, string(p))
	}
	slices.Sort(presets)

	return map[string][]string{
		"camera": presets,
		"floor":  floor.Names(),
		"axis":   {"x", "y"},
		"engine": {engineBlender, enginePreview, engineJSON},
		"view":   {string(preview.Top), string(preview.Side)},
	}
}

// registerFlagCompletions attaches value completions to every command in the
// tree that defines one of the enum-like flags.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues() {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	for _, sub := range cmd.Commands() {
		registerFlagCompletions(sub)
	}
}
