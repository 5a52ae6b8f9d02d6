package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for classveil. Tree flags complete
directories, --map completes JSON class maps and --format completes its
summary formats.`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

// treeFlags are the directory flags of each command that walks a tree
var treeFlags = map[*cobra.Command][]string{
	rootCmd:    {"source", "output"},
	buildCmd:   {"source", "output"},
	restoreCmd: {"input", "output"},
}

// registerFlagCompletions wires completion for flags whose values come
// from a fixed set or the file system. It runs after every command has
// registered its flags.
func registerFlagCompletions() {
	for cmd, names := range treeFlags {
		for _, name := range names {
			_ = cmd.MarkFlagDirname(name)
		}
		_ = cmd.MarkFlagFilename("map", "json")
	}
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"text\tHuman-readable summary", "json\tMachine-readable summary"}, cobra.ShellCompDirectiveNoFileComp
	})
}
