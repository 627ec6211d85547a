package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/go-termfmt"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/config"
	"github.com/yildizm/TransformoDocs/internal/emoji"
)

const defaultConfigFile = ".transformo.yaml"

// configSections maps `config show --section` names to their values
var configSections = map[string]func(*config.Config) any{
	"service":   func(c *config.Config) any { return c.Service },
	"clipboard": func(c *config.Config) any { return c.Clipboard },
	"ui":        func(c *config.Config) any { return c.UI },
	"output":    func(c *config.Config) any { return c.Output },
	"watch":     func(c *config.Config) any { return c.Watch },
	"serve":     func(c *config.Config) any { return c.Serve },
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage TransformoDocs configuration",
		Long: `Create, inspect and check the configuration that points TransformoDocs at
its document-processing service and MRC classifier.`,
		// skips the root hook: validate has to run on a broken file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
			return nil
		},
	}

	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigShowCommand(),
		newConfigValidateCommand(),
		newConfigPathCommand(),
	)
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		target  string
		minimal bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Example: `  transformo config init
  transformo config init --minimal --output ~/.config/transformo/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				target = defaultConfigFile
			}
			if err := writeSampleConfig(target, minimal, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			kind := "full"
			if minimal {
				kind = "minimal"
			}
			_, _ = fmt.Fprintf(out, "%s Configuration file created at: %s (%s)\n", GetEmoji("success"), target, kind)
			_, _ = fmt.Fprintf(out, "%s Set service.base_url to your document-processing service before uploading\n", GetEmoji("info"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "output", "o", "", "where to write the file (default "+defaultConfigFile+")")
	cmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "only the service and output sections")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func writeSampleConfig(path string, minimal, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content := config.SampleConfig()
	if minimal {
		content = config.MinimalSampleConfig()
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func newConfigShowCommand() *cobra.Command {
	var format, section string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file and TRANSFORMO_*
environment overrides have been merged.`,
		Example: `  transformo config show
  transformo config show --section service --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var v any = cfg
			if section != "" {
				pick, ok := configSections[section]
				if !ok {
					return fmt.Errorf("unknown section %q (one of %s)", section, strings.Join(sectionNames(), ", "))
				}
				v = pick(cfg)
			}
			return encodeConfig(cmd.OutOrStdout(), format, v)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "print one section only")

	return cmd
}

func sectionNames() []string {
	names := make([]string, 0, len(configSections))
	for name := range configSections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodeConfig(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and resolve service endpoints",
		Long: `Load the configuration, validate every section and print the endpoints
uploads and MRC checks will be sent to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err == nil {
				var c *client.Client
				if c, err = client.New(cfg.Service); err == nil {
					_, _ = fmt.Fprintf(out, "%s Configuration is valid\n\n", GetEmoji("success"))
					_, _ = fmt.Fprintln(out, configSummary(cfg, c, useColor(out)))
					return nil
				}
			}

			_, _ = fmt.Fprintf(out, "%s Configuration validation failed:\n   %v\n", GetEmoji("error"), err)
			return err
		},
	}
}

func configSummary(cfg *config.Config, c *client.Client, color bool) string {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !isEmojiDisabled()

	breaker := "off"
	if cfg.Service.Breaker.Enabled {
		breaker = fmt.Sprintf("on (%d requests, ratio %.2f)", cfg.Service.Breaker.MinRequests, cfg.Service.Breaker.FailureRatio)
	}

	return termfmt.TreeViewWithOptions([]termfmt.TreeItem{
		{Label: "Upload endpoint", Value: c.UploadURL()},
		{Label: "MRC endpoint", Value: c.CheckURL()},
		{Label: "Timeout", Value: cfg.Service.Timeout.String()},
		{Label: "Circuit breaker", Value: breaker},
		{Label: "Clipboard", Value: cfg.Clipboard.Backend},
		{Label: "Output", Value: cfg.Output.DefaultFormat, Last: true},
	}, opts)
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where configuration is read from",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintln(out, "Search order:")
			for i, path := range config.GetConfigPaths() {
				mark := "-"
				if fileExists(path) {
					mark = GetEmoji("success")
				}
				_, _ = fmt.Fprintf(out, "  %d. %s %s\n", i+1, mark, path)
			}

			switch current, found := config.FindConfigFile(); {
			case cfgFile != "":
				_, _ = fmt.Fprintf(out, "\n%s In use (--config): %s\n", GetEmoji("arrow"), cfgFile)
			case found:
				_, _ = fmt.Fprintf(out, "\n%s In use: %s\n", GetEmoji("arrow"), current)
			default:
				_, _ = fmt.Fprintf(out, "\n%s No config file found, using defaults\n", GetEmoji("info"))
			}

			overrides := activeOverrides()
			if len(overrides) == 0 {
				_, _ = fmt.Fprintf(out, "No %s* overrides set\n", config.EnvPrefix)
				return
			}
			_, _ = fmt.Fprintln(out, "Environment overrides:")
			for _, name := range overrides {
				_, _ = fmt.Fprintf(out, "  %s\n", name)
			}
		},
	}
}

// activeOverrides lists the TRANSFORMO_* variables present in the environment
func activeOverrides() []string {
	var names []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
