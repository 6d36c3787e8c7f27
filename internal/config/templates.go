package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the kind of codebase being checked
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypePython  ProjectType = "python"
	ProjectTypeJava    ProjectType = "java"
	ProjectTypeNative  ProjectType = "native"
)

// Strictness represents how eagerly the classifier's answers are reported
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file selection presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	ConfidenceThreshold float64
	MaxComplexity       int
	MaxFunctionLines    int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.py",
				"**/*.java",
				"**/*.c",
				"**/*.cpp",
			},
			ExcludePatterns: []string{
				".git",
				"build",
				"dist",
			},
		},
		ProjectTypePython: {
			IncludePatterns: []string{
				"**/*.py",
			},
			ExcludePatterns: []string{
				".git",
				".venv",
				"venv",
				"__pycache__",
				".tox",
				"build",
				"dist",
			},
		},
		ProjectTypeJava: {
			IncludePatterns: []string{
				"**/*.java",
			},
			ExcludePatterns: []string{
				".git",
				"target",
				"build",
				".gradle",
			},
		},
		ProjectTypeNative: {
			IncludePatterns: []string{
				"**/*.c",
				"**/*.cpp",
			},
			ExcludePatterns: []string{
				".git",
				"build",
				"cmake-build-*",
				"third_party",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			ConfidenceThreshold: 0.8,
			MaxComplexity:       15,
			MaxFunctionLines:    80,
		},
		StrictnessStandard: {
			ConfidenceThreshold: 0.65,
			MaxComplexity:       DefaultMaxComplexity,
			MaxFunctionLines:    DefaultMaxFunctionLines,
		},
		StrictnessStrict: {
			ConfidenceThreshold: 0.5,
			MaxComplexity:       7,
			MaxFunctionLines:    30,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# syntaxcheck configuration
# Documentation: https://github.com/ludo-technologies/syntaxcheck

# ============================================================================
# DETECTION
# ============================================================================
detection:
  # Classifier predictions below this probability are reported as NoError.
  # Python verdicts and the Java/C/C++ statement terminator rule ignore it.
  confidence_threshold: ` + strconv.FormatFloat(strict.ConfidenceThreshold, 'f', -1, 64) + `

# ============================================================================
# CLASSIFIER ARTIFACTS
# ============================================================================
model:
  # Directory holding tfidf_vectorizer/syntax_error_model/label_encoder
  # (or the older tfidf/error_classifier/label_encoder set)
  dir: models

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: text, json, yaml
  format: text

  # Use colors in terminal output (disable for CI logs)
  color: true

  # Print the source with offending lines highlighted
  show_code: false

# ============================================================================
# BATCH CHECK
# ============================================================================
check:
  # File patterns to include (glob patterns)
  include_patterns:` + formatYAMLList(preset.IncludePatterns) + `

  # File patterns to exclude (glob patterns)
  exclude_patterns:` + formatYAMLList(preset.ExcludePatterns) + `

  recursive: true
  respect_gitignore: true

  # Number of files analyzed at once
  concurrency: ` + strconv.Itoa(DefaultConcurrency) + `

  # Abort the run after this many seconds (0 = default of 5 minutes)
  timeout_seconds: ` + strconv.Itoa(DefaultTimeoutSeconds) + `

  # Categories that fail the check, e.g. [MissingColon, UnmatchedBracket]
  # Empty means every error category
  fail_on: []

# ============================================================================
# QUALITY METRICS
# ============================================================================
quality:
  enabled: true
  max_complexity: ` + strconv.Itoa(strict.MaxComplexity) + `
  min_comment_ratio: 10
  max_avg_line_length: 100
  max_function_lines: ` + strconv.Itoa(strict.MaxFunctionLines) + `

# ============================================================================
# AUTO-FIX
# ============================================================================
fix:
  # Attach a proposed fix to reports with an error
  suggest: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# syntaxcheck configuration (minimal)
# See full options: https://github.com/ludo-technologies/syntaxcheck

detection:
  confidence_threshold: 0.65

model:
  dir: models

check:
  include_patterns: ["**/*.py", "**/*.java", "**/*.c", "**/*.cpp"]
  exclude_patterns: [".git", "build", "dist"]
`
}

// formatYAMLList formats a string slice as an indented YAML block sequence
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return " []"
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString("\n    - \"")
		b.WriteString(item)
		b.WriteString("\"")
	}
	return b.String()
}
