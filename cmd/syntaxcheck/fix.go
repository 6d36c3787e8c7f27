package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/app"
	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/langid"
	"github.com/ludo-technologies/syntaxcheck/service"
)

type fixOptions struct {
	detectorOptions
	category string
	line     int
	write    bool
	format   string
}

func fixCmd() *cobra.Command {
	o := &fixOptions{}

	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Apply a conservative automatic fix",
		Long: `Apply a small textual repair for the detected error category.

The category is detected unless --category is given. Supported repairs add
a missing colon or semicolon, convert tabs to spaces, close unmatched
brackets and close unbalanced quotes. Other categories are left unchanged.

Examples:
  # Print the fixed source
  syntaxcheck fix main.py

  # Force a category and line
  syntaxcheck fix --category MissingColon --line 3 main.py

  # Rewrite the file in place
  syntaxcheck fix --write Main.java`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args[0], o)
		},
	}

	o.register(cmd)
	cmd.Flags().StringVar(&o.category, "category", "",
		"Category to repair instead of the detected one")
	cmd.Flags().IntVarP(&o.line, "line", "l", 0,
		"1-based line to repair (colon and semicolon fixes)")
	cmd.Flags().BoolVarP(&o.write, "write", "w", false,
		"Write the fixed source back to the file")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text",
		"Output format: text, json, yaml")

	return cmd
}

func runFix(cmd *cobra.Command, path string, o *fixOptions) error {
	if o.line < 0 {
		return &ExitError{Code: 1, Message: "--line must be positive"}
	}
	switch domain.OutputFormat(o.format) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return &ExitError{Code: 1, Message: domain.NewUnsupportedFormatError(o.format).Error()}
	}

	helper := app.NewFileHelper()
	content, err := helper.ReadFile(path)
	if err != nil {
		return &ExitError{Code: 1, Message: domain.NewFileNotFoundError(path, err).Error()}
	}
	code := string(content)

	cfg, err := o.loadConfig(cmd, path)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	logger := o.logger(cmd.ErrOrStderr())

	fixService := service.NewFixService()
	fixService.SetLogger(logger)

	var req domain.FixRequest
	if o.category != "" {
		cat, err := resolveCategory(o.category)
		if err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
		req = domain.FixRequest{Code: code, Category: cat, Language: langid.Identify(code, path)}
	} else {
		verdict, err := o.detection(cfg, logger).Detect(context.Background(), domain.DetectRequest{Code: code, Filename: path})
		if err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
		req = fixService.RequestFor(code, verdict)
	}
	if o.line > 0 {
		req.LineHint = o.line
	}

	result := fixService.Fix(context.Background(), req)

	if o.write && result.Success {
		info, err := os.Stat(path)
		if err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
		if err := os.WriteFile(path, []byte(result.FixedCode), info.Mode().Perm()); err != nil {
			return &ExitError{Code: 1, Message: fmt.Sprintf("failed to write %s: %v", path, err)}
		}
	}

	return writeFixResult(cmd, path, req, result, o)
}

func writeFixResult(cmd *cobra.Command, path string, req domain.FixRequest, result domain.FixResult, o *fixOptions) error {
	out := cmd.OutOrStdout()

	switch domain.OutputFormat(o.format) {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, result)
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, result)
	}

	if !result.Success {
		fmt.Fprintf(out, "No automatic fix for %s in %s.\n", req.Category, path)
		if result.Error != "" {
			fmt.Fprintf(out, "Reason: %s\n", result.Error)
		}
		return nil
	}

	for _, change := range result.Changes {
		fmt.Fprintf(out, "- %s\n", change)
	}
	if o.write {
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", result.FixedCode)
	return nil
}
