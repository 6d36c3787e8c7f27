package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/syntaxcheck/internal/config"
)

func runInitWith(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := initCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".syntaxcheck.yaml")

	out, err := runInitWith(t, "--config", configPath)
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if !strings.Contains(out, "syntaxcheck check .") {
		t.Errorf("Expected next step hint, got %q", out)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	expectedSections := []string{
		"detection:",
		"confidence_threshold: 0.65",
		"model:",
		"output:",
		"check:",
		"quality:",
		"fix:",
	}
	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}
}

func TestInitCommand_GeneratedConfigLoads(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".syntaxcheck.yaml")

	if _, err := runInitWith(t, "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Detection.ConfidenceThreshold != 0.65 {
		t.Errorf("Expected threshold 0.65, got %v", cfg.Detection.ConfidenceThreshold)
	}
	if len(cfg.Check.IncludePatterns) != 4 {
		t.Errorf("Expected 4 include patterns, got %v", cfg.Check.IncludePatterns)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".syntaxcheck.yaml")
	if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	_, err := runInitWith(t, "--config", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if _, err := runInitWith(t, "--config", configPath, "--force"); err != nil {
		t.Fatalf("init with --force failed: %v", err)
	}
	content, _ := os.ReadFile(configPath)
	if string(content) == "existing" {
		t.Error("File was not overwritten with --force")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "minimal.yaml")

	if _, err := runInitWith(t, "--config", configPath, "--minimal"); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if strings.Contains(string(content), "quality:") {
		t.Error("Minimal config should not contain the quality section")
	}
	if !strings.Contains(string(content), "include_patterns") {
		t.Error("Minimal config should contain include_patterns")
	}
}

func TestInitCommand_MissingDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nope", ".syntaxcheck.yaml")

	_, err := runInitWith(t, "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected missing directory error, got: %v", err)
	}
}

func TestInitCommand_Flags(t *testing.T) {
	cmd := initCmd()

	configFlag := cmd.Flags().Lookup("config")
	if configFlag == nil {
		t.Fatal("config flag not found")
	}
	if configFlag.DefValue != ".syntaxcheck.yaml" {
		t.Errorf("Expected default config path .syntaxcheck.yaml, got %s", configFlag.DefValue)
	}

	for short, long := range map[string]string{"c": "config", "f": "force", "i": "interactive"} {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}
