// Package main provides the classveil CLI for reversible CSS class name
// obfuscation.
package main

import (
	"fmt"
	"os"

	"github.com/yacobolo/classveil/internal/classveil"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		useColors, _ := rootCmd.PersistentFlags().GetBool("color")
		fmt.Fprintln(os.Stderr, classveil.RenderStyle(classveil.StyleError, "Error: "+err.Error(), useColors))
		os.Exit(1)
	}
}
