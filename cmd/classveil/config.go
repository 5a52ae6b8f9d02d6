package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/classveil"
)

const defaultConfigFile = ".classveil.yaml"

var k = koanf.New(".")

// configSections are the top-level YAML sections; env vars starting with one
// of them map into it
var configSections = map[string]bool{"build": true, "restore": true}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags the user actually set; unset flags fall through to the
	// config file and then to the defaults in build*Config.
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("CLASSVEIL_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps environment variable names to config keys:
//
//	CLASSVEIL_BUILD_SOURCE       -> build.source
//	CLASSVEIL_BUILD_MAX_ATTEMPTS -> build.max-attempts
//	CLASSVEIL_VERBOSE            -> verbose
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, "CLASSVEIL_")), "_")
	if len(parts) > 1 && configSections[parts[0]] {
		return parts[0] + "." + strings.Join(parts[1:], "-")
	}
	return strings.Join(parts, "-")
}

// buildBuildConfig constructs the library's Config from koanf state.
func buildBuildConfig() classveil.Config {
	return classveil.Config{
		SourceDir:        getStringWithFallback("source", "build.source", "src"),
		OutputDir:        getStringWithFallback("output", "build.output", "dist"),
		MapFile:          getStringWithFallback("map", "build.map", ""),
		Prefix:           getStringWithFallback("prefix", "build.prefix", "x"),
		Length:           getIntWithFallback("length", "build.length", 6),
		MaxAttempts:      getIntWithFallback("max-attempts", "build.max-attempts", 1000),
		Minify:           getBoolWithFallback("minify", "build.minify", true),
		StrictLiterals:   getBoolWithFallback("strict-literals", "build.strict-literals", false),
		Excludes:         getStringsWithFallback("exclude", "build.exclude", nil),
		Verbatim:         getStringsWithFallback("verbatim", "build.verbatim", nil),
		RespectGitignore: getBoolWithFallback("gitignore", "build.gitignore", false),
		Progress:         getBoolWithFallback("progress", "build.progress", false),
	}
}

// buildRestoreConfig constructs the library's RestoreConfig from koanf state.
func buildRestoreConfig() classveil.RestoreConfig {
	return classveil.RestoreConfig{
		InputDir:  getStringWithFallback("input", "restore.input", "dist"),
		OutputDir: getStringWithFallback("output", "restore.output", "restored"),
		MapFile:   getStringWithFallback("map", "restore.map", ""),
		Format:    getBoolWithFallback("pretty", "restore.pretty", true),
		Excludes:  getStringsWithFallback("exclude", "restore.exclude", nil),
		Progress:  getBoolWithFallback("progress", "restore.progress", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}
