package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and migrate the configuration",
	Long: `Inspect and migrate the changelog configuration.

Configuration precedence (highest to lowest):
  1. Environment variables (FRAGLOG_*, nested keys joined with __)
  2. <changelog dir>/config.yml, or config.json when no YAML file exists
  3. Built-in defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Example: `  fraglog config show
  fraglog config show --format json
  FRAGLOG_WRAP=100 fraglog config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert config.json to config.yml",
	Long: `Convert a JSON config file in the changelog directory to YAML.

An existing YAML config is never overwritten. The JSON file is left in
place; remove it once the YAML file is verified.`,
	Example: `  fraglog config migrate
  fraglog config migrate --dry-run`,
	Args: cobra.NoArgs,
	RunE: runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupSetup
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configMigrateCmd)

	configShowCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json")
	configMigrateCmd.Flags().Bool("dry-run", false, "Show what would be migrated without writing")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return clierrors.NewArgumentError(fmt.Sprintf("invalid --format value: %s", format), "Use yaml or json")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := writeStructured(cmd.OutOrStdout(), format, cfg); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	configFlag, _ := cmd.Flags().GetString("config")

	yamlPath := config.ResolvePath(changelogDir(cmd), configFlag)
	jsonPath := strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".json"

	result, err := config.MigrateJSONToYAML(jsonPath, yamlPath, dryRun)
	if err != nil {
		return clierrors.ConfigParseError(jsonPath, err)
	}
	for _, key := range result.UnknownKeys {
		output.PrintWarning(warningWriter(cmd), "%s: unknown key %q is copied but ignored", jsonPath, key)
	}
	if result.Success && !result.DryRun {
		output.PrintSuccess(cmd.OutOrStdout(), "%s", result.Message)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}
