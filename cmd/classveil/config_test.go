package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".classveil.yaml")
	configContent := `
verbose: true
format: json

build:
  source: web/src
  output: web/dist
  prefix: cv
  length: 8
  minify: false

restore:
  input: web/dist
  pretty: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "json", k.String("format"))
	assert.Equal(t, "web/src", k.String("build.source"))
	assert.Equal(t, "web/dist", k.String("build.output"))
	assert.Equal(t, "cv", k.String("build.prefix"))
	assert.Equal(t, 8, k.Int("build.length"))
	assert.False(t, k.Bool("build.minify"))
	assert.False(t, k.Bool("restore.pretty"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// A missing config file is not an error
	require.NoError(t, loadConfigFromPath("/nonexistent/.classveil.yaml"))

	config := buildBuildConfig()
	assert.Equal(t, "src", config.SourceDir)
	assert.Equal(t, "dist", config.OutputDir)
	assert.Equal(t, "x", config.Prefix)
	assert.Equal(t, 6, config.Length)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".classveil.yaml")
	configContent := `
build:
  source: from-file
  max-attempts: 10
restore:
  pretty: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("CLASSVEIL_BUILD_SOURCE", "from-env")
	t.Setenv("CLASSVEIL_BUILD_MAX_ATTEMPTS", "50")
	t.Setenv("CLASSVEIL_RESTORE_PRETTY", "false")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env", k.String("build.source"))
	assert.Equal(t, 50, k.Int("build.max-attempts"))
	assert.False(t, k.Bool("restore.pretty"))
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"CLASSVEIL_BUILD_SOURCE", "build.source"},
		{"CLASSVEIL_BUILD_STRICT_LITERALS", "build.strict-literals"},
		{"CLASSVEIL_RESTORE_OUTPUT", "restore.output"},
		{"CLASSVEIL_VERBOSE", "verbose"},
		{"CLASSVEIL_FORMAT", "format"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.env))
		})
	}
}

func TestBuildBuildConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildBuildConfig()
	assert.Equal(t, "src", config.SourceDir)
	assert.Equal(t, "dist", config.OutputDir)
	assert.Empty(t, config.MapFile)
	assert.Equal(t, "x", config.Prefix)
	assert.Equal(t, 6, config.Length)
	assert.Equal(t, 1000, config.MaxAttempts)
	assert.True(t, config.Minify)
	assert.False(t, config.StrictLiterals)
	assert.False(t, config.RespectGitignore)
	assert.Nil(t, config.Excludes)
}

func TestBuildRestoreConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildRestoreConfig()
	assert.Equal(t, "dist", config.InputDir)
	assert.Equal(t, "restored", config.OutputDir)
	assert.Empty(t, config.MapFile)
	assert.True(t, config.Format)
}

func TestBuildBuildConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".classveil.yaml")
	configContent := `
build:
  source: site
  output: public
  strict-literals: true
  gitignore: true
  exclude:
    - "**/*.map"
  verbatim:
    - "vendor/**"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildBuildConfig()
	assert.Equal(t, "site", config.SourceDir)
	assert.Equal(t, "public", config.OutputDir)
	assert.True(t, config.StrictLiterals)
	assert.True(t, config.RespectGitignore)
	assert.Equal(t, []string{"**/*.map"}, config.Excludes)
	assert.Equal(t, []string{"vendor/**"}, config.Verbatim)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".classveil.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
	assert.Contains(t, string(data), "restore:")
	assert.Contains(t, string(data), "prefix: x")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile(".classveil.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile(".classveil.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".classveil.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "classveil "+version)
	assert.Contains(t, out, "class map:    class-map.json")
	assert.Contains(t, out, "replacements: x + 6 chars")
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "summary formats",
			args: []string{"__complete", "--format", ""},
			want: []string{"text\tHuman-readable summary", "json\tMachine-readable summary", ":4"},
		},
		{
			name: "restore class map is json",
			args: []string{"__complete", "restore", "--map", ""},
			want: []string{"json", ":8"},
		},
		{
			name: "build source is a directory",
			args: []string{"__complete", "build", "--source", ""},
			want: []string{":16"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := rootCmd
			cmd.SetOut(&buf)
			t.Cleanup(func() { cmd.SetOut(nil) })
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestBuildAndRestoreCommands(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.MkdirAll("src", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "site.css"), []byte(".btn { color: red; }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join("src", "index.html"), []byte(`<div class="btn">Go</div>`), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"build", "--source", "src", "--output", "dist", "--quiet"})
	require.NoError(t, cmd.Execute())

	css, err := os.ReadFile(filepath.Join("dist", "site.css"))
	require.NoError(t, err)
	assert.NotContains(t, string(css), ".btn")
	assert.FileExists(t, filepath.Join("dist", "class-map.json"))

	resetKoanf()
	cmd.SetArgs([]string{"restore", "--input", "dist", "--output", "restored", "--quiet"})
	require.NoError(t, cmd.Execute())

	restored, err := os.ReadFile(filepath.Join("restored", "site.css"))
	require.NoError(t, err)
	assert.Contains(t, string(restored), ".btn")
	assert.NoFileExists(t, filepath.Join("restored", "class-map.json"))
}

func TestBuildCommand_MissingSource(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"build", "--source", "missing", "--output", "dist", "--quiet"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}

func TestGetStringsWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, []string{"a"}, getStringsWithFallback("flag-key", "config.key", []string{"a"}))
}
