package main

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
	"github.com/ludo-technologies/syntaxcheck/internal/constants"
	"github.com/ludo-technologies/syntaxcheck/service"
)

// detectorOptions are the flags shared by every command that runs detection
type detectorOptions struct {
	configPath string
	modelDir   string
	threshold  float64
	verbose    bool
}

func (o *detectorOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file (default: discovered "+constants.ConfigFileName+")")
	cmd.Flags().StringVar(&o.modelDir, "model-dir", "",
		"Directory holding the classifier artifacts (default from config: "+constants.DefaultModelDir+")")
	cmd.Flags().Float64Var(&o.threshold, "threshold", constants.DefaultConfidenceThreshold,
		"Minimum classifier confidence for reporting an error")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false,
		"Trace the detection pipeline on stderr")
}

// loadConfig loads the configuration discovered from target and applies the
// flags that were set explicitly.
func (o *detectorOptions) loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	cfg, err := service.NewConfigurationLoader().LoadConfig(o.configPath, target)
	if err != nil {
		return nil, err
	}

	if o.modelDir != "" {
		cfg.Model.Dir = o.modelDir
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Detection.ConfidenceThreshold = o.threshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid flags", err)
	}
	return cfg, nil
}

// logger returns the pipeline logger; it discards unless --verbose is set
func (o *detectorOptions) logger(stderr io.Writer) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(stderr, "[syntaxcheck] ", log.Ltime)
}

// detection wires the classifier provider and detection service for cfg
func (o *detectorOptions) detection(cfg *config.Config, logger *log.Logger) *service.DetectionServiceImpl {
	provider := service.NewClassifierProvider(cfg.Model.Dir)
	provider.SetLogger(logger)

	svc := service.NewDetectionService(provider.Source(), cfg.Detection.ConfidenceThreshold)
	svc.SetLogger(logger)
	return svc
}

// resolveCategory parses a category name, case-insensitively, and suggests
// the closest known name when it is unknown.
func resolveCategory(name string) (domain.Category, error) {
	cats, err := service.ParseCategories([]string{name})
	if err == nil && len(cats) == 1 {
		return cats[0], nil
	}

	msg := fmt.Sprintf("unknown category %q", name)
	if suggestion := suggestCategory(name); suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return 0, fmt.Errorf("%s (valid: %s)", msg, strings.Join(domain.CategoryNames(), ", "))
}

// resolveCategories resolves every name, stopping at the first unknown one
func resolveCategories(names []string) ([]domain.Category, error) {
	var out []domain.Category
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		cat, err := resolveCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

func suggestCategory(name string) string {
	names := domain.CategoryNames()
	lower := make([]string, len(names))
	byLower := make(map[string]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
		byLower[lower[i]] = n
	}
	sort.Strings(lower)

	match, err := edlib.FuzzySearchThreshold(strings.ToLower(name), lower, 0.5, edlib.Levenshtein)
	if err != nil || match == "" {
		return ""
	}
	return byLower[match]
}
