package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/git"
	"github.com/ariel-frischer/fraglog/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a changelog directory",
	Long: `Create the changelog directory with an empty unreleased folder.

An existing prologue (text shown under the heading) and epilogue (text
appended after the last release, often the history from before fraglog)
can be copied in.

With --gen-config a config file with every default is written too. The
project URL used for issue links is read from the git remote when the
directory is inside a git repository.

An existing directory is left unchanged (use --force to initialize it
anyway).`,
	Example: `  # Create .changelog/
  fraglog init

  # Keep the old changelog as epilogue and write a config
  fraglog init --epilogue CHANGELOG.md --gen-config

  # Infer issue links from a different remote
  fraglog init --gen-config --remote upstream`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.GroupID = GroupSetup
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("prologue", "", "File to copy in as the prologue")
	initCmd.Flags().String("epilogue", "", "File to copy in as the epilogue")
	initCmd.Flags().BoolP("gen-config", "g", false, "Write a config file with the defaults")
	initCmd.Flags().String("remote", "origin", "Git remote used to infer the project URL")
	initCmd.Flags().BoolP("force", "f", false, "Initialize even if the directory exists")
}

func runInit(cmd *cobra.Command, _ []string) error {
	prologue, _ := cmd.Flags().GetString("prologue")
	epilogue, _ := cmd.Flags().GetString("epilogue")
	genConfig, _ := cmd.Flags().GetBool("gen-config")
	remote, _ := cmd.Flags().GetString("remote")
	force, _ := cmd.Flags().GetBool("force")

	dir := changelogDir(cmd)
	configFlag, _ := cmd.Flags().GetString("config")
	cfgPath := config.ResolvePath(dir, configFlag)

	if genConfig && !force {
		if _, err := os.Stat(cfgPath); err == nil {
			return clierrors.AlreadyExists(cfgPath, "Use --force to overwrite it with the defaults")
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	err = changelog.InitDir(dir, cfg, changelog.InitOptions{
		ProloguePath: prologue,
		EpiloguePath: epilogue,
		Force:        force,
	})
	if changelog.IsExistsError(err) {
		return clierrors.AlreadyExists(dir, "Use --force to initialize it anyway")
	}
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	output.PrintPath(cmd.OutOrStdout(), "Created", dir)

	if !genConfig {
		return nil
	}

	var url string
	if git.IsGitRepository(dir) {
		url, err = git.ProjectURL(dir, remote)
		if err != nil {
			output.PrintWarning(warningWriter(cmd), "%v; project_url left unset", clierrors.GitRemoteNotFound(remote, err))
		}
	} else {
		output.PrintWarning(warningWriter(cmd), "%s is not inside a git repository; project_url left unset", dir)
	}

	if err := config.WriteTemplate(cfgPath, url); err != nil {
		return clierrors.FileNotWritable(cfgPath, err)
	}
	output.PrintPath(cmd.OutOrStdout(), "Wrote", cfgPath)
	return nil
}
