package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "syntaxcheck"

	// ConfigFileName is the default config file name
	ConfigFileName = ".syntaxcheck.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SYNTAXCHECK"

	// ConfigEnvVar points at a config file when none is found by discovery
	ConfigEnvVar = EnvVarPrefix + "_CONFIG"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Detection defaults
const (
	// DefaultConfidenceThreshold is the minimum classifier probability that
	// turns a prediction into a reported error.
	DefaultConfidenceThreshold = 0.65

	// DefaultModelDir holds the classifier artifact sets.
	DefaultModelDir = "models"
)

// Exit codes of the check command
const (
	ExitClean         = 0
	ExitErrorsFound   = 1
	ExitAnalysisError = 2
)
