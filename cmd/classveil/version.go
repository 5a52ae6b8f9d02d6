package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/classveil/internal/classveil"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/classveil
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and class map format",
	Long: `Print the classveil version together with the class map it reads and
writes, so a restore can be matched to the build that produced it.`,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), versionInfo())
	},
}

// versionInfo describes this build and its default replacement format
func versionInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "classveil %s\n", version)
	fmt.Fprintf(&b, "  class map:    %s\n", classveil.ArtifactName)
	fmt.Fprintf(&b, "  replacements: %s + %d chars of [a-z0-9]\n", classveil.DefaultPrefix, classveil.DefaultLength)
	return b.String()
}
