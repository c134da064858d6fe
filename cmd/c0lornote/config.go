package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c0lornote/c0lornote/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := settingsDir()
		if err != nil {
			return err
		}
		settings, err := config.Load(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (showing defaults)\n", err)
		}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", config.Path(dir), data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Long:  `Write the default settings to the config directory. Refuses to overwrite an existing file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := settingsDir()
		if err != nil {
			return err
		}
		path := config.Path(dir)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(dir, config.Defaults(dir)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by its YAML key, for example:

  c0lornote config set storage_backend sqlite
  c0lornote config set autosave_interval 60`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := settingsDir()
		if err != nil {
			return err
		}
		settings, err := config.Load(dir)
		if err != nil {
			return err
		}

		// Round-trip through YAML so any settings key can be set with its
		// native type.
		raw := map[string]interface{}{}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
		if _, ok := raw[args[0]]; !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}

		patch := fmt.Sprintf("%s: %s", args[0], args[1])
		if err := yaml.Unmarshal([]byte(patch), settings); err != nil {
			return fmt.Errorf("invalid value for %s: %w", args[0], err)
		}

		if err := config.Save(dir, settings); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func settingsDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return config.DefaultDir()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd)
}
