package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/app"
	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/version"
	"github.com/ludo-technologies/syntaxcheck/service"
)

type detectOptions struct {
	detectorOptions
	format    string
	noQuality bool
	noFix     bool
	showCode  bool
	noColor   bool
}

func detectCmd() *cobra.Command {
	o := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "syntaxcheck <file>",
		Short: "syntaxcheck - syntax error detector for Python, Java, C and C++",
		Long: `syntaxcheck detects syntax errors in a single source file.

Python files are checked structurally; Java, C and C++ files are checked
for statement terminators and classified by a trained model. The report
lists the detected category, confidence, issues, an explanation, a
proposed fix and quality metrics.

Examples:
  # Report on a file
  syntaxcheck main.py

  # Machine readable report
  syntaxcheck --format json Main.java

  # Show the source with offending lines highlighted
  syntaxcheck --show-code prog.c`,
		Version:       version.GetVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, o)
		},
	}

	o.register(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", "",
		"Output format: text, json, yaml (default from config: text)")
	cmd.Flags().BoolVar(&o.noQuality, "no-quality", false,
		"Skip quality metrics")
	cmd.Flags().BoolVar(&o.noFix, "no-fix", false,
		"Skip the proposed fix")
	cmd.Flags().BoolVar(&o.showCode, "show-code", false,
		"Print the source with offending lines highlighted")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false,
		"Disable colored output")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, o *detectOptions) error {
	if len(args) != 1 {
		cmd.SetOut(cmd.ErrOrStderr())
		_ = cmd.Usage()
		return &ExitError{Code: 1, Message: "expected exactly one file"}
	}
	path := args[0]

	cfg, err := o.loadConfig(cmd, path)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	logger := o.logger(cmd.ErrOrStderr())

	fixService := service.NewFixService()
	fixService.SetLogger(logger)

	formatter := service.NewOutputFormatter()
	formatter.SetColor(cfg.Output.Color && !o.noColor)
	formatter.SetShowCode(cfg.Output.ShowCode || o.showCode)

	uc, err := app.NewDetectUseCaseBuilder().
		WithDetectionService(o.detection(cfg, logger)).
		WithFixService(fixService).
		WithQualityService(service.NewQualityService(&cfg.Quality)).
		WithFormatter(formatter).
		Build()
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	loader := service.NewConfigurationLoader()
	req := loader.MergeReportRequest(loader.ReportRequest(cfg), domain.ReportRequest{
		Path:           path,
		OutputFormat:   domain.OutputFormat(o.format),
		OutputWriter:   cmd.OutOrStdout(),
		SuggestFix:     !o.noFix,
		IncludeQuality: !o.noQuality,
		ConfigPath:     o.configPath,
	})

	if _, err := uc.Execute(context.Background(), req); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
