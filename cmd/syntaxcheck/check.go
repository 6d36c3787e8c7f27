package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/app"
	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/constants"
	"github.com/ludo-technologies/syntaxcheck/service"
)

type checkOptions struct {
	detectorOptions
	include     []string
	exclude     []string
	failOn      []string
	concurrency int
	format      string
	json        bool
	noGitignore bool
	noProgress  bool
	noColor     bool
}

func checkCmd() *cobra.Command {
	o := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check many files for CI/CD pipelines",
		Long: `Detect syntax errors in every Python, Java, C and C++ file under the
given paths.

Exit codes:
  0 - No errors found
  1 - Error(s) found in at least one file
  2 - Analysis error (file not readable, model unavailable, etc.)

Examples:
  # Check a source tree
  syntaxcheck check src/

  # Only fail on selected categories
  syntaxcheck check --fail-on MissingColon,UnmatchedBracket src/

  # JSON output for machine parsing
  syntaxcheck check --json .`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, o)
		},
	}

	o.register(cmd)
	cmd.Flags().StringSliceVar(&o.include, "include", nil,
		"Glob patterns of files to check (default from config)")
	cmd.Flags().StringSliceVar(&o.exclude, "exclude", nil,
		"Additional glob patterns to exclude")
	cmd.Flags().StringSliceVar(&o.failOn, "fail-on", nil,
		"Categories that fail the check (default: all)")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", 0,
		"Number of files checked at once (default from config)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "",
		"Output format: text, json, yaml (default from config: text)")
	cmd.Flags().BoolVar(&o.json, "json", false,
		"Output results as JSON")
	cmd.Flags().BoolVar(&o.noGitignore, "no-gitignore", false,
		"Do not skip files matched by .gitignore")
	cmd.Flags().BoolVar(&o.noProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false,
		"Disable colored output")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, o *checkOptions) error {
	if len(args) == 0 {
		return &ExitError{Code: constants.ExitAnalysisError, Message: "no paths specified"}
	}

	cfg, err := o.loadConfig(cmd, args[0])
	if err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}

	format := domain.OutputFormat(cfg.Output.Format)
	if o.format != "" {
		format = domain.OutputFormat(o.format)
	}
	if o.json {
		format = domain.OutputFormatJSON
	}

	loader := service.NewConfigurationLoader()
	base, err := loader.CheckRequest(cfg)
	if err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}
	categories, err := resolveCategories(o.failOn)
	if err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}
	req := loader.MergeCheckRequest(base, domain.CheckRequest{
		Paths:           args,
		IncludePatterns: o.include,
		ExcludePatterns: o.exclude,
		Concurrency:     o.concurrency,
		Categories:      categories,
		ConfigPath:      o.configPath,
	})

	logger := o.logger(cmd.ErrOrStderr())

	helper := app.NewFileHelper()
	helper.SetRespectGitignore(cfg.Check.RespectGitignore && !o.noGitignore)

	// Progress is noise in machine readable output
	pm := service.NewProgressManager(!o.noProgress && format == domain.OutputFormatText)
	defer pm.Close()

	checkService := service.NewCheckService(o.detection(cfg, logger), helper, &cfg.Check)
	checkService.SetProgressManager(pm)
	checkService.SetLogger(logger)

	formatter := service.NewOutputFormatter()
	formatter.SetColor(cfg.Output.Color && !o.noColor)

	uc, err := app.NewCheckUseCaseBuilder().
		WithService(checkService).
		WithFormatter(formatter).
		WithFileHelper(helper).
		Build()
	if err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}

	result, err := uc.Execute(context.Background(), req)
	if err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}
	pm.Close()

	if err := uc.Write(result, format, cmd.OutOrStdout()); err != nil {
		return &ExitError{Code: constants.ExitAnalysisError, Message: err.Error()}
	}

	if result.ExitCode != constants.ExitClean {
		// Output already explains the failure
		return &ExitError{Code: result.ExitCode, Message: exitMessage(result)}
	}
	return nil
}

func exitMessage(result *domain.CheckResult) string {
	if result.Summary.FilesErrored > 0 {
		return fmt.Sprintf("%d file(s) could not be analyzed", result.Summary.FilesErrored)
	}
	return ""
}
