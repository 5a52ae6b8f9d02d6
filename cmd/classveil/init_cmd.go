package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .classveil.yaml config file",
	Long:  `Create a .classveil.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigFile)
		}

		if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created " + defaultConfigFile)
		return nil
	},
}

const defaultConfig = `# classveil configuration
# Docs: https://github.com/yacobolo/classveil

# Shared settings
verbose: false
format: text               # text | json

# Build settings
build:
  source: src
  output: dist
  prefix: x
  length: 6
  max-attempts: 1000
  minify: true
  strict-literals: false   # only rewrite literals made entirely of class names
  gitignore: false
  exclude:
    - "**/*.map"
  verbatim:
    - "vendor/**"

# Restore settings
restore:
  input: dist
  output: restored
  pretty: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
