package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

func missingColonReport() *domain.Report {
	return &domain.Report{
		Path: "greet.py",
		Verdict: &domain.Verdict{
			Language:   domain.LanguagePython,
			Category:   domain.CategoryMissingColon,
			Confidence: 1.0,
			Explanation: domain.Explanation{
				Why: "Python statements that start a block must end with ':'.",
				Fix: "Add ':' at the end of the line.",
			},
			Issues: []domain.Issue{
				{Category: domain.CategoryMissingColon, Message: "Missing colon after def statement", Line: 1, Suggestion: "Add ':' at the end"},
			},
			Evidence: domain.Evidence{Source: domain.EvidenceStructural, Lines: []int{1}},
		},
		Fix: &domain.FixResult{
			FixedCode: "def greet():\n    print('hi')",
			Changes:   []string{"Added missing colon at line 1"},
			Success:   true,
		},
		Code:        "def greet()\n    print('hi')",
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "test",
	}
}

func TestWriteJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatterWriteReportJSON(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	if err := formatter.Write(missingColonReport(), domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var result struct {
		Path    string `json:"path"`
		Verdict struct {
			Language string `json:"language"`
			Category string `json:"category"`
			Evidence struct {
				Source string `json:"source"`
			} `json:"evidence"`
		} `json:"verdict"`
		Fix struct {
			Success bool `json:"success"`
		} `json:"fix"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}

	if result.Verdict.Category != "MissingColon" || result.Verdict.Language != "Python" {
		t.Errorf("Expected MissingColon/Python, got %s/%s", result.Verdict.Category, result.Verdict.Language)
	}
	if result.Verdict.Evidence.Source != "structural" {
		t.Errorf("Expected structural evidence, got %q", result.Verdict.Evidence.Source)
	}
	if !result.Fix.Success {
		t.Error("Expected fix to be serialized")
	}
	if result.Code != "" {
		t.Error("Source code should not be serialized")
	}
}

func TestOutputFormatterWriteReportYAML(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	if err := formatter.Write(missingColonReport(), domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as YAML: %v", err)
	}
	verdict, ok := result["verdict"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected verdict mapping, got %T", result["verdict"])
	}
	if verdict["category"] != "MissingColon" {
		t.Errorf("Expected category MissingColon, got %v", verdict["category"])
	}
}

func TestOutputFormatterWriteReportText(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(false)
	formatter.SetShowCode(true)

	report := missingColonReport()
	report.Quality = &domain.QualityReport{
		Score:       95,
		Lines:       domain.LineCounts{Total: 2, Code: 2},
		Complexity:  1,
		Naming:      domain.NamingIssues{SnakeCase: []string{"DoThing"}},
		Suggestions: []string{"Add more comments"},
	}
	report.Warnings = []string{"classifier unavailable"}

	var buf bytes.Buffer
	if err := formatter.Write(report, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"=== syntaxcheck Report ===",
		"File: greet.py",
		"Language: Python",
		"Detected: MissingColon (confidence 100.00%)",
		"Decided by: structural",
		"Line 1: Missing colon after def statement",
		"Suggestion: Add ':' at the end",
		"Why: Python statements",
		"Added missing colon at line 1",
		"    def greet():",
		"> 001: def greet()",
		"  002:     print('hi')",
		"Score: 95.00/100",
		"Not snake_case: DoThing",
		"- classifier unavailable",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Error("Expected no ANSI escapes with color disabled")
	}
}

func TestOutputFormatterWriteReportText_NoCodeByDefault(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(false)

	var buf bytes.Buffer
	if err := formatter.Write(missingColonReport(), "", &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Code with Highlighted Errors") {
		t.Error("Highlighted listing should be opt-in")
	}
}

func TestOutputFormatterWriteReportText_FailedFix(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(false)

	report := missingColonReport()
	report.Fix = &domain.FixResult{FixedCode: report.Code, Success: false}

	var buf bytes.Buffer
	if err := formatter.Write(report, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No automatic fix could be applied.") {
		t.Errorf("Expected failed fix notice, got:\n%s", buf.String())
	}
}

func TestOutputFormatterWriteCheckText(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(false)

	result := &domain.CheckResult{
		Passed:   false,
		ExitCode: 1,
		Files: []domain.FileVerdict{
			{Path: "ok.py", Verdict: &domain.Verdict{Language: domain.LanguagePython, Category: domain.CategoryNoError}},
			{Path: "Main.java", Failed: true, Verdict: &domain.Verdict{
				Language:   domain.LanguageJava,
				Category:   domain.CategoryMissingDelimiter,
				Confidence: 0.9,
				Issues:     []domain.Issue{},
				Evidence:   domain.Evidence{Source: domain.EvidenceHardRule, Rule: domain.DelimiterRule, Lines: []int{3}},
			}},
			{Path: "bad.py", Failed: true, Verdict: &domain.Verdict{
				Language:   domain.LanguagePython,
				Category:   domain.CategoryMissingColon,
				Confidence: 1,
				Issues:     []domain.Issue{{Category: domain.CategoryMissingColon, Message: "expected ':'", Line: 1}},
				Evidence:   domain.Evidence{Source: domain.EvidenceStructural, Lines: []int{1}},
			}},
			{Path: "broken.c", Error: "permission denied"},
		},
		Summary: domain.CheckSummary{
			FilesAnalyzed: 3,
			FilesFailed:   2,
			FilesErrored:  1,
			ByCategory:    map[domain.Category]int{domain.CategoryMissingDelimiter: 1, domain.CategoryMissingColon: 1},
		},
		Duration: 12,
	}

	var buf bytes.Buffer
	if err := formatter.WriteCheck(result, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("WriteCheck failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Main.java: MissingDelimiter (Java, 90%)",
		"Main.java:3: line does not end with ';', '{' or '}'",
		"bad.py:1: expected ':'",
		"broken.c: error: permission denied",
		"Files failed: 2",
		"Files errored: 1",
		"MissingDelimiter: 1",
		"Duration: 12ms",
		"FAILED",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "ok.py") {
		t.Error("Clean files should not be listed")
	}

	result.Passed = true
	buf.Reset()
	if err := formatter.WriteCheck(result, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("WriteCheck failed: %v", err)
	}
	if !strings.Contains(buf.String(), "PASSED") {
		t.Error("Expected PASSED for a passing result")
	}
}

func TestOutputFormatterWriteCheckJSON(t *testing.T) {
	formatter := NewOutputFormatter()

	result := &domain.CheckResult{
		Passed: true,
		Files:  []domain.FileVerdict{{Path: "a.py", Verdict: &domain.Verdict{Category: domain.CategoryNoError}}},
		Summary: domain.CheckSummary{
			FilesAnalyzed: 1,
			ByLanguage:    map[domain.Language]int{domain.LanguagePython: 1},
		},
	}

	var buf bytes.Buffer
	if err := formatter.WriteCheck(result, domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("WriteCheck failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if decoded["passed"] != true {
		t.Errorf("Expected passed true, got %v", decoded["passed"])
	}
	summary := decoded["summary"].(map[string]interface{})
	byLanguage := summary["by_language"].(map[string]interface{})
	if byLanguage["Python"] != float64(1) {
		t.Errorf("Expected languages keyed by name, got %v", byLanguage)
	}
}

func TestOutputFormatterUnsupportedFormat(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(missingColonReport(), domain.OutputFormat("xml"), &buf)

	var de domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeUnsupportedFormat {
		t.Errorf("Expected UNSUPPORTED_FORMAT error, got %v", err)
	}

	if err := formatter.WriteCheck(&domain.CheckResult{}, domain.OutputFormat("csv"), &buf); err == nil {
		t.Error("Expected error for unsupported check format")
	}
}

func TestOutputFormatterNilInput(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	if err := formatter.Write(nil, domain.OutputFormatJSON, &buf); err == nil {
		t.Error("Expected error for nil report")
	}
	if err := formatter.WriteCheck(nil, domain.OutputFormatJSON, &buf); err == nil {
		t.Error("Expected error for nil result")
	}
}

func TestHighlightLines(t *testing.T) {
	tests := []struct {
		name    string
		verdict *domain.Verdict
		want    map[int]bool
	}{
		{
			name:    "no error",
			verdict: &domain.Verdict{Category: domain.CategoryNoError, Evidence: domain.Evidence{Lines: []int{2}}},
			want:    map[int]bool{},
		},
		{
			name: "issue and evidence lines",
			verdict: &domain.Verdict{
				Category: domain.CategoryMissingDelimiter,
				Issues:   []domain.Issue{{Line: 2}, {Line: 0}},
				Evidence: domain.Evidence{Lines: []int{2, 5}},
			},
			want: map[int]bool{2: true, 5: true},
		},
		{
			name:    "error without lines",
			verdict: &domain.Verdict{Category: domain.CategoryTypeMismatch},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightLines(tt.verdict)
			if (got == nil) != (tt.want == nil) || len(got) != len(tt.want) {
				t.Fatalf("HighlightLines() = %v, want %v", got, tt.want)
			}
			for line := range tt.want {
				if !got[line] {
					t.Errorf("Expected line %d to be highlighted", line)
				}
			}
		})
	}
}

func TestOutputFormatterHighlightsEveryLineWithoutLocation(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(false)
	formatter.SetShowCode(true)

	report := &domain.Report{
		Path: "cast.java",
		Verdict: &domain.Verdict{
			Language:   domain.LanguageJava,
			Category:   domain.CategoryTypeMismatch,
			Confidence: 0.8,
			Evidence:   domain.Evidence{Source: domain.EvidenceClassifier, Label: "TypeMismatch"},
		},
		Code: "int x = (int) s;\nreturn x;",
	}

	var buf bytes.Buffer
	if err := formatter.Write(report, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "> 001:") || !strings.Contains(output, "> 002:") {
		t.Errorf("Expected every line highlighted, got:\n%s", output)
	}
	if !strings.Contains(output, "classifier (label TypeMismatch)") {
		t.Errorf("Expected classifier evidence, got:\n%s", output)
	}
}
