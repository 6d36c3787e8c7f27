package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/syntaxcheck/internal/constants"
)

// Default quality thresholds
const (
	// DefaultMaxComplexity is the cyclomatic complexity above which a snippet loses points
	DefaultMaxComplexity = 10

	// DefaultMinCommentRatio is the comment percentage below which a snippet loses points
	DefaultMinCommentRatio = 10.0

	// DefaultMaxAvgLineLength is the average line length above which a snippet loses points
	DefaultMaxAvgLineLength = 100.0

	// DefaultMaxFunctionLines is the length above which a function is reported as long
	DefaultMaxFunctionLines = 50
)

// Default batch settings
const (
	// DefaultConcurrency bounds the number of files checked at once
	DefaultConcurrency = 4

	// DefaultTimeoutSeconds bounds a whole check run
	DefaultTimeoutSeconds = 300
)

// Config represents the main configuration structure
type Config struct {
	// Detection holds arbiter configuration
	Detection DetectionConfig `json:"detection" mapstructure:"detection" yaml:"detection"`

	// Model holds classifier artifact configuration
	Model ModelConfig `json:"model" mapstructure:"model" yaml:"model"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Check holds batch mode configuration
	Check CheckConfig `json:"check" mapstructure:"check" yaml:"check"`

	// Quality holds quality metric configuration
	Quality QualityConfig `json:"quality" mapstructure:"quality" yaml:"quality"`

	// Fix holds auto-fix configuration
	Fix FixConfig `json:"fix" mapstructure:"fix" yaml:"fix"`
}

// DetectionConfig holds configuration for the decision arbiter
type DetectionConfig struct {
	// ConfidenceThreshold is the minimum classifier probability reported as an error, in (0, 1]
	ConfidenceThreshold float64 `json:"confidence_threshold" mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
}

// ModelConfig holds configuration for the classifier artifacts
type ModelConfig struct {
	// Dir is the directory holding the artifact sets
	Dir string `json:"dir" mapstructure:"dir" yaml:"dir"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Color enables ANSI colors in text output
	Color bool `json:"color" mapstructure:"color" yaml:"color"`

	// ShowCode prints the analyzed source with the offending lines highlighted
	ShowCode bool `json:"show_code" mapstructure:"show_code" yaml:"show_code"`
}

// CheckConfig holds configuration for batch checks
type CheckConfig struct {
	// IncludePatterns are glob patterns for files to check
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns are glob patterns for files to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore in the checked roots
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// Concurrency bounds the number of files analyzed at once
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`

	// TimeoutSeconds bounds a whole run; 0 means the executor default
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// FailOn lists the categories that fail the check; empty means every error category
	FailOn []string `json:"fail_on" mapstructure:"fail_on" yaml:"fail_on"`
}

// QualityConfig holds configuration for quality metrics
type QualityConfig struct {
	// Enabled controls whether quality metrics are computed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	MaxComplexity    int     `json:"max_complexity" mapstructure:"max_complexity" yaml:"max_complexity"`
	MinCommentRatio  float64 `json:"min_comment_ratio" mapstructure:"min_comment_ratio" yaml:"min_comment_ratio"`
	MaxAvgLineLength float64 `json:"max_avg_line_length" mapstructure:"max_avg_line_length" yaml:"max_avg_line_length"`
	MaxFunctionLines int     `json:"max_function_lines" mapstructure:"max_function_lines" yaml:"max_function_lines"`
}

// FixConfig holds configuration for the auto-fix engine
type FixConfig struct {
	// Suggest attaches a proposed fix to every report with an error
	Suggest bool `json:"suggest" mapstructure:"suggest" yaml:"suggest"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			ConfidenceThreshold: constants.DefaultConfidenceThreshold,
		},
		Model: ModelConfig{
			Dir: constants.DefaultModelDir,
		},
		Output: OutputConfig{
			Format:   constants.OutputFormatText,
			Color:    true,
			ShowCode: false,
		},
		Check: CheckConfig{
			IncludePatterns: []string{
				"**/*.py", "**/*.java", "**/*.c", "**/*.cpp",
			},
			ExcludePatterns: []string{
				// Version control
				".git",
				// Virtual environments and caches
				".venv",
				"venv",
				"__pycache__",
				// Build outputs
				"build",
				"dist",
				"target",
				"node_modules",
			},
			Recursive:        true,
			RespectGitignore: true,
			Concurrency:      DefaultConcurrency,
			TimeoutSeconds:   DefaultTimeoutSeconds,
			FailOn:           []string{},
		},
		Quality: QualityConfig{
			Enabled:          true,
			MaxComplexity:    DefaultMaxComplexity,
			MinCommentRatio:  DefaultMinCommentRatio,
			MaxAvgLineLength: DefaultMaxAvgLineLength,
			MaxFunctionLines: DefaultMaxFunctionLines,
		},
		Fix: FixConfig{
			Suggest: true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// Without an explicit path, the file is discovered from targetPath upward.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// envKeys are the settings that can be overridden from the environment,
// e.g. SYNTAXCHECK_DETECTION_CONFIDENCE_THRESHOLD.
var envKeys = []string{
	"detection.confidence_threshold",
	"model.dir",
	"output.format",
	"output.color",
	"output.show_code",
	"check.concurrency",
	"check.timeout_seconds",
	"quality.enabled",
	"fix.suggest",
}

// loadConfigFromFile reads and parses a configuration file, then applies
// environment overrides. An empty path yields the defaults plus overrides.
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configCandidates are the file names looked up in each searched directory
var configCandidates = []string{
	".syntaxcheck.yaml",
	".syntaxcheck.yml",
	".syntaxcheck.toml",
	".syntaxcheck.json",
	"syntaxcheck.yaml",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files in common locations.
// targetPath is the file or directory being checked.
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir || // root reached
					dir == volume || // Windows volume root (C:)
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, configCandidates); config != "" {
			return config
		}
	}

	// Explicit environment pointer as the last resort
	if envConfig := os.Getenv(constants.ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Detection.ConfidenceThreshold <= 0 || c.Detection.ConfidenceThreshold > 1 {
		return fmt.Errorf("detection.confidence_threshold must be in (0, 1], got %g", c.Detection.ConfidenceThreshold)
	}

	if strings.TrimSpace(c.Model.Dir) == "" {
		return fmt.Errorf("model.dir cannot be empty")
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if len(c.Check.IncludePatterns) == 0 {
		return fmt.Errorf("check.include_patterns cannot be empty")
	}

	if c.Check.Concurrency < 1 {
		return fmt.Errorf("check.concurrency must be >= 1, got %d", c.Check.Concurrency)
	}

	if c.Check.TimeoutSeconds < 0 {
		return fmt.Errorf("check.timeout_seconds must be >= 0, got %d", c.Check.TimeoutSeconds)
	}

	if err := c.validateQualityConfig(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateQualityConfig() error {
	q := c.Quality
	if q.MaxComplexity < 1 {
		return fmt.Errorf("quality.max_complexity must be >= 1, got %d", q.MaxComplexity)
	}
	if q.MinCommentRatio < 0 || q.MinCommentRatio > 100 {
		return fmt.Errorf("quality.min_comment_ratio must be in [0, 100], got %g", q.MinCommentRatio)
	}
	if q.MaxAvgLineLength <= 0 {
		return fmt.Errorf("quality.max_avg_line_length must be > 0, got %g", q.MaxAvgLineLength)
	}
	if q.MaxFunctionLines < 1 {
		return fmt.Errorf("quality.max_function_lines must be >= 1, got %d", q.MaxFunctionLines)
	}
	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("detection", config.Detection)
	v.Set("model", config.Model)
	v.Set("output", config.Output)
	v.Set("check", config.Check)
	v.Set("quality", config.Quality)
	v.Set("fix", config.Fix)

	return v.WriteConfig()
}
