package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
)

// ConfigurationLoaderImpl turns configuration files into requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from configPath, or discovers it from
// targetPath upward when configPath is empty.
func (c *ConfigurationLoaderImpl) LoadConfig(configPath, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to the
// built-in defaults when it cannot be read.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return cfg
	}
	return config.DefaultConfig()
}

// CheckRequest converts the check section into a batch request. Paths are
// set by the caller.
func (c *ConfigurationLoaderImpl) CheckRequest(cfg *config.Config) (domain.CheckRequest, error) {
	categories, err := ParseCategories(cfg.Check.FailOn)
	if err != nil {
		return domain.CheckRequest{}, domain.NewConfigError("invalid check.fail_on", err)
	}

	return domain.CheckRequest{
		Paths:           []string{},
		Recursive:       cfg.Check.Recursive,
		IncludePatterns: append([]string(nil), cfg.Check.IncludePatterns...),
		ExcludePatterns: append([]string(nil), cfg.Check.ExcludePatterns...),
		Concurrency:     cfg.Check.Concurrency,
		Categories:      categories,
	}, nil
}

// ReportRequest converts the output, quality and fix sections into a
// single-file report request. Path is set by the caller.
func (c *ConfigurationLoaderImpl) ReportRequest(cfg *config.Config) domain.ReportRequest {
	return domain.ReportRequest{
		OutputFormat:   domain.OutputFormat(cfg.Output.Format),
		SuggestFix:     cfg.Fix.Suggest,
		IncludeQuality: cfg.Quality.Enabled,
	}
}

// MergeCheckRequest overlays the non-zero fields of override on base
func (c *ConfigurationLoaderImpl) MergeCheckRequest(base, override domain.CheckRequest) domain.CheckRequest {
	merged := base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.Recursive {
		merged.Recursive = true
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = append(append([]string(nil), base.ExcludePatterns...), override.ExcludePatterns...)
	}
	if override.Concurrency > 0 {
		merged.Concurrency = override.Concurrency
	}
	if len(override.Categories) > 0 {
		merged.Categories = override.Categories
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return merged
}

// MergeReportRequest overlays the set fields of override on base. The
// boolean sections can only be switched off by the override.
func (c *ConfigurationLoaderImpl) MergeReportRequest(base, override domain.ReportRequest) domain.ReportRequest {
	merged := base

	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	merged.SuggestFix = base.SuggestFix && override.SuggestFix
	merged.IncludeQuality = base.IncludeQuality && override.IncludeQuality

	return merged
}

// ParseCategories resolves category names, case-insensitively. Unknown names
// are reported together.
func ParseCategories(names []string) ([]domain.Category, error) {
	var (
		out     []domain.Category
		unknown []string
	)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cat, ok := lookupCategory(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, cat)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown categories: %s (valid: %s)",
			strings.Join(unknown, ", "), strings.Join(domain.CategoryNames(), ", "))
	}
	return out, nil
}

func lookupCategory(name string) (domain.Category, bool) {
	if cat, ok := domain.ParseCategory(name); ok {
		return cat, true
	}
	for _, cat := range domain.AllCategories() {
		if strings.EqualFold(cat.String(), name) {
			return cat, true
		}
	}
	return 0, false
}
