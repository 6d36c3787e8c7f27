package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/app"
	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/model"
	"github.com/ludo-technologies/syntaxcheck/service"
)

type modelOptions struct {
	detectorOptions
	format string
}

// modelInfo is the machine readable summary of a loaded artifact set
type modelInfo struct {
	Set          model.SetName            `json:"set" yaml:"set"`
	Dir          string                   `json:"dir" yaml:"dir"`
	Classes      []string                 `json:"classes" yaml:"classes"`
	Vocabulary   int                      `json:"vocabulary" yaml:"vocabulary"`
	Features     []string                 `json:"features,omitempty" yaml:"features,omitempty"`
	Enhanced     bool                     `json:"enhanced" yaml:"enhanced"`
	Files        []model.FileDigest       `json:"files" yaml:"files"`
	Distribution []model.LabelProbability `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

func modelCmd() *cobra.Command {
	o := &modelOptions{}

	cmd := &cobra.Command{
		Use:   "model [file]",
		Short: "Inspect the classifier artifacts",
		Long: `Load the classifier artifacts and print what was loaded.

With a file argument the full label distribution predicted for that file
is printed as well.

Examples:
  # Show the loaded artifact set
  syntaxcheck model

  # Probability of every label for a file
  syntaxcheck model --model-dir ./models prog.c`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModel(cmd, args, o)
		},
	}

	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&o.modelDir, "model-dir", "",
		"Directory holding the classifier artifacts")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text",
		"Output format: text, json, yaml")

	return cmd
}

func runModel(cmd *cobra.Command, args []string, o *modelOptions) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	cfg, err := o.loadConfig(cmd, target)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	artifacts, err := model.Load(cfg.Model.Dir)
	if err != nil {
		return &ExitError{Code: 1, Message: domain.NewModelUnavailableError("failed to load classifier artifacts", err).Error()}
	}

	info := modelInfo{
		Set:        artifacts.Manifest.Set,
		Dir:        artifacts.Manifest.Dir,
		Classes:    artifacts.Labels.Classes(),
		Vocabulary: artifacts.Vectorizer.Dim(),
		Features:   artifacts.Features,
		Enhanced:   artifacts.Enhanced(),
		Files:      artifacts.Manifest.Files,
	}

	if len(args) == 1 {
		content, err := app.NewFileHelper().ReadFile(args[0])
		if err != nil {
			return &ExitError{Code: 1, Message: domain.NewFileNotFoundError(args[0], err).Error()}
		}
		info.Distribution = model.NewClassifier(artifacts).Distribution(string(content))
	}

	out := cmd.OutOrStdout()
	switch domain.OutputFormat(o.format) {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, info)
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, info)
	case domain.OutputFormatText:
		writeModelInfo(out, info)
		return nil
	default:
		return &ExitError{Code: 1, Message: domain.NewUnsupportedFormatError(o.format).Error()}
	}
}

func writeModelInfo(out io.Writer, info modelInfo) {
	fmt.Fprintf(out, "Artifact set: %s\n", info.Set)
	fmt.Fprintf(out, "Directory:    %s\n", info.Dir)
	fmt.Fprintf(out, "Classes (%d): %s\n", len(info.Classes), strings.Join(info.Classes, ", "))
	fmt.Fprintf(out, "Vocabulary:   %d terms\n", info.Vocabulary)
	if info.Enhanced {
		fmt.Fprintf(out, "Features:     %s\n", strings.Join(info.Features, ", "))
	} else {
		fmt.Fprintln(out, "Features:     text only")
	}

	fmt.Fprintln(out, "\nFiles:")
	for _, f := range info.Files {
		fmt.Fprintf(out, "  %-32s %8d bytes  %016x\n", f.Name, f.Size, f.XXHash)
	}

	if len(info.Distribution) > 0 {
		fmt.Fprintln(out, "\nDistribution:")
		for _, p := range info.Distribution {
			fmt.Fprintf(out, "  %-24s %.4f\n", p.Label, p.Probability)
		}
	}
}
