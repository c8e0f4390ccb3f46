package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
)

// Config is the persisted CLI configuration.
type Config struct {
	URL                string `yaml:"url,omitempty"`
	Username           string `yaml:"username,omitempty"`
	Token              string `yaml:"token,omitempty"`
	Output             string `yaml:"output,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify"`
}

// loadConfig materializes the effective configuration from viper.
func loadConfig() *Config {
	return &Config{
		URL:                viper.GetString("url"),
		Username:           viper.GetString("username"),
		Token:              viper.GetString("token"),
		Output:             viper.GetString("output"),
		InsecureSkipVerify: viper.GetBool("insecure-skip-verify"),
	}
}

// configFilePath returns the file the configuration is persisted to.
func configFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gravitee")
	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

// saveConfig persists the configuration. The file may hold a session token,
// so it is written user-readable only.
func saveConfig(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the persisted CLI configuration",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Display the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.Token != "" {
				config.Token = constants.MaskedSecret
			}

			return outputYAML(config)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one of: url, username, token, output, insecure-skip-verify",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			config := loadConfig()

			switch key {
			case "url":
				config.URL = value
			case "username":
				config.Username = value
			case "token":
				config.Token = value
			case "output":
				if value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
					return fmt.Errorf("%w: %s", constants.ErrUnknownOutputFormat, value)
				}

				config.Output = value
			case "insecure-skip-verify":
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("parsing %q: %w", value, err)
				}

				config.InsecureSkipVerify = parsed
			default:
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Printf("Set %s\n", key)

			return nil
		},
	}
}
