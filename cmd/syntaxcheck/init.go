package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/internal/config"
	"github.com/ludo-technologies/syntaxcheck/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a syntaxcheck configuration file",
		Long: `Generate a documented syntaxcheck configuration file with sensible defaults.

By default, creates ` + constants.ConfigFileName + ` in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create ` + constants.ConfigFileName + ` in current directory
  syntaxcheck init

  # Custom output path
  syntaxcheck init --config custom.yaml

  # Overwrite existing file
  syntaxcheck init --force

  # Generate smaller config with essential options only
  syntaxcheck init --minimal

  # Interactive setup wizard
  syntaxcheck init -i`,
		SilenceUsage: true,
		RunE:         runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()

	projectType := config.ProjectTypeGeneric
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		projectType, strictness, configPath, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(projectType, strictness)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'syntaxcheck check .' to check your project.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.ProjectType, config.Strictness, string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "syntaxcheck Configuration Setup")
	fmt.Fprintln(out, "===============================")
	fmt.Fprintln(out)

	projectTypes := []struct {
		Label string
		Value config.ProjectType
	}{
		{"Generic (Python, Java, C, C++)", config.ProjectTypeGeneric},
		{"Python", config.ProjectTypePython},
		{"Java", config.ProjectTypeJava},
		{"C/C++", config.ProjectTypeNative},
	}

	projectPrompt := promptui.Select{
		Label: "What type of project is this?",
		Items: projectTypes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("project selection cancelled: %w", err)
	}

	fmt.Fprintln(out)

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Report classifier answers at 0.65 confidence", config.StrictnessStandard},
		{"Relaxed", "Higher confidence required, fewer reports", config.StrictnessRelaxed},
		{"Strict", "Lower confidence accepted, tighter quality limits", config.StrictnessStrict},
	}

	strictnessPrompt := promptui.Select{
		Label: "How strict should the check be?",
		Items: strictnessLevels,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}

	fmt.Fprintln(out)

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Creating %s... ", outputPath)

	return projectTypes[projectIdx].Value, strictnessLevels[strictnessIdx].Value, outputPath, nil
}
