package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/config"
)

// configFileName is the file written by `config init`.
const configFileName = ".jsmonitor.yaml"

// ConfigCommand holds the flags for the config command group.
type ConfigCommand struct {
	force bool
}

// NewConfigCommand creates the config command with its init and show
// subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &ConfigCommand{}

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jsmonitor configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default .jsmonitor.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cmd.RunInit,
	}
	initCmd.Flags().BoolVarP(&cmd.force, "force", "f", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  cmd.RunShow,
	}

	cobraCmd.AddCommand(initCmd)
	cobraCmd.AddCommand(showCmd)

	return cobraCmd
}

// RunInit writes the default configuration to directory/.jsmonitor.yaml.
func (c *ConfigCommand) RunInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(targetDir(args), configFileName)

	if !c.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	out, err := config.Default().YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

	return nil
}

// RunShow prints the effective configuration after applying file,
// environment and defaults.
func (c *ConfigCommand) RunShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(out))

	return nil
}
