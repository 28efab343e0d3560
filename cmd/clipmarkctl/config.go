package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"clipmark/internal/capture"
	"clipmark/internal/config"
	"clipmark/internal/hotkeys"
)

var errInvalidConfig = errors.New("config is invalid")

func resolveConfigPath() string {
	if configPathFlag != "" {
		return configPathFlag
	}
	return config.DefaultPath()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the clipmark config file",
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), resolveConfigPath())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as the app would load it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file without repairing it",
		Long: `Reports every field the settings screen would reject, plus shortcuts that
collide with each other or with a reserved system shortcut. Unlike the app,
nothing is replaced with defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath()
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}
			cfg, err := config.Decode(data)
			if err != nil {
				return err
			}
			problems := validateConfig(cfg)
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(out, "%s: ok\n", path)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "%s: %s\n", path, p)
			}
			return errInvalidConfig
		},
	}

	cmd.AddCommand(pathCmd, showCmd, validateCmd)
	return cmd
}

// validateConfig runs field validation and, when that passes, a dry-run
// registration of both shortcuts.
func validateConfig(cfg config.AppConfig) []string {
	res := config.Validate(cfg)
	if !res.Valid() {
		problems := make([]string, 0, len(res.Errors))
		for _, fe := range res.Errors {
			problems = append(problems, fe.Error())
		}
		return problems
	}

	noop := func() {}
	err := hotkeys.NewRegistry().Apply([]hotkeys.Entry{
		{Owner: string(capture.FieldOpenShortcut), Spec: cfg.OpenShortcut, OnTrigger: noop},
		{Owner: string(capture.FieldBookmarkShortcut), Spec: cfg.BookmarkShortcut, OnTrigger: noop},
	})
	if err != nil {
		var conflict *hotkeys.ConflictError
		if errors.As(err, &conflict) {
			return []string{fmt.Sprintf("%s: %v", conflict.Owner, conflict)}
		}
		return []string{err.Error()}
	}
	return nil
}
