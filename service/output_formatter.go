package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	color    bool
	showCode bool
}

// NewOutputFormatter creates a new output formatter with colors enabled
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{color: true}
}

// SetColor enables or disables ANSI colors in text output. Colors are still
// dropped when the writer is not a terminal.
func (f *OutputFormatterImpl) SetColor(enabled bool) {
	f.color = enabled
}

// SetShowCode enables the highlighted source listing in text output
func (f *OutputFormatterImpl) SetShowCode(enabled bool) {
	f.showCode = enabled
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes a single-file report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.Report, format domain.OutputFormat, writer io.Writer) error {
	if report == nil {
		return domain.NewOutputError("nothing to write", nil)
	}
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, report)
	case domain.OutputFormatText, "":
		return f.writeReportText(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteCheck writes a batch check result in the specified format
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	if result == nil {
		return domain.NewOutputError("nothing to write", nil)
	}
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, result)
	case domain.OutputFormatText, "":
		return f.writeCheckText(result, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// palette holds the text styles of one write
type palette struct {
	heading func(string) string
	bad     func(a ...interface{}) string
	good    func(a ...interface{}) string
	warn    func(a ...interface{}) string
	dim     func(a ...interface{}) string
}

func (f *OutputFormatterImpl) palette(writer io.Writer) palette {
	bad := color.New(color.FgRed, color.Bold)
	good := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	if !f.color {
		for _, c := range []*color.Color{bad, good, warn, dim} {
			c.DisableColor()
		}
		return palette{
			heading: func(s string) string { return s },
			bad:     bad.SprintFunc(),
			good:    good.SprintFunc(),
			warn:    warn.SprintFunc(),
			dim:     dim.SprintFunc(),
		}
	}
	style := lipgloss.NewRenderer(writer).NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	return palette{
		heading: func(s string) string { return style.Render(s) },
		bad:     bad.SprintFunc(),
		good:    good.SprintFunc(),
		warn:    warn.SprintFunc(),
		dim:     dim.SprintFunc(),
	}
}

// writeReportText writes a single-file report as plain text
func (f *OutputFormatterImpl) writeReportText(report *domain.Report, writer io.Writer) error {
	p := f.palette(writer)
	v := report.Verdict

	fmt.Fprintf(writer, "\n%s\n\n", p.heading("=== syntaxcheck Report ==="))
	if report.Path != "" {
		fmt.Fprintf(writer, "File: %s\n", report.Path)
	}
	if v == nil {
		fmt.Fprintf(writer, "No verdict.\n")
		return nil
	}

	fmt.Fprintf(writer, "Language: %s\n", v.Language)
	verdict := p.good(v.Category.String())
	if v.HasError() {
		verdict = p.bad(v.Category.String())
	}
	fmt.Fprintf(writer, "Detected: %s (confidence %.2f%%)\n", verdict, v.Confidence*100)
	fmt.Fprintf(writer, "Decided by: %s\n", describeEvidence(v.Evidence))

	if len(v.Issues) > 0 {
		fmt.Fprintf(writer, "\n%s\n", p.heading("Issues:"))
		for _, is := range v.Issues {
			if is.HasLine() {
				fmt.Fprintf(writer, "  Line %d: %s\n", is.Line, is.Message)
			} else {
				fmt.Fprintf(writer, "  %s\n", is.Message)
			}
			if is.Suggestion != "" {
				fmt.Fprintf(writer, "    Suggestion: %s\n", p.dim(is.Suggestion))
			}
		}
	}

	fmt.Fprintf(writer, "\n%s\n", p.heading("Explanation:"))
	fmt.Fprintf(writer, "  Why: %s\n", v.Explanation.Why)
	fmt.Fprintf(writer, "  Fix: %s\n", v.Explanation.Fix)

	if report.Fix != nil {
		fmt.Fprintf(writer, "\n%s\n", p.heading("Suggested Fix:"))
		if report.Fix.Success {
			for _, change := range report.Fix.Changes {
				fmt.Fprintf(writer, "  - %s\n", change)
			}
			fmt.Fprintf(writer, "\n")
			for _, line := range strings.Split(report.Fix.FixedCode, "\n") {
				fmt.Fprintf(writer, "    %s\n", line)
			}
		} else {
			fmt.Fprintf(writer, "  No automatic fix could be applied.\n")
		}
	}

	if f.showCode && report.Code != "" {
		fmt.Fprintf(writer, "\n%s\n", p.heading("Code with Highlighted Errors:"))
		highlighted := HighlightLines(v)
		for i, line := range strings.Split(report.Code, "\n") {
			n := i + 1
			if (highlighted == nil && v.HasError()) || highlighted[n] {
				fmt.Fprintf(writer, "%s\n", p.bad(fmt.Sprintf("> %03d: %s", n, line)))
			} else {
				fmt.Fprintf(writer, "  %03d: %s\n", n, line)
			}
		}
	}

	if q := report.Quality; q != nil {
		fmt.Fprintf(writer, "\n%s\n", p.heading("Quality:"))
		fmt.Fprintf(writer, "  Score: %.2f/100\n", q.Score)
		fmt.Fprintf(writer, "  Lines: %d (%d code, %d comments, %d blank)\n",
			q.Lines.Total, q.Lines.Code, q.Lines.Comments, q.Lines.Blank)
		fmt.Fprintf(writer, "  Complexity: %d\n", q.Complexity)
		fmt.Fprintf(writer, "  Comment ratio: %.1f%%\n", q.CommentRatio)
		fmt.Fprintf(writer, "  Average line length: %.1f\n", q.AvgLineLength)
		if len(q.Naming.SnakeCase) > 0 {
			fmt.Fprintf(writer, "  Not snake_case: %s\n", strings.Join(q.Naming.SnakeCase, ", "))
		}
		if len(q.Naming.CamelCase) > 0 {
			fmt.Fprintf(writer, "  Not camelCase: %s\n", strings.Join(q.Naming.CamelCase, ", "))
		}
		for _, s := range q.Suggestions {
			fmt.Fprintf(writer, "  - %s\n", p.warn(s))
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(writer, "  - %s\n", p.warn(w))
		}
	}

	return nil
}

// writeCheckText writes a batch result as plain text
func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, writer io.Writer) error {
	p := f.palette(writer)

	fmt.Fprintf(writer, "\n%s\n\n", p.heading("=== syntaxcheck Check ==="))

	for _, file := range result.Files {
		switch {
		case file.Error != "":
			fmt.Fprintf(writer, "%s: %s\n", file.Path, p.warn("error: "+file.Error))
		case file.Verdict == nil:
			continue
		case file.Failed:
			v := file.Verdict
			fmt.Fprintf(writer, "%s: %s (%s, %.0f%%)\n", file.Path, p.bad(v.Category.String()), v.Language, v.Confidence*100)
			for _, is := range v.Issues {
				if is.HasLine() {
					fmt.Fprintf(writer, "  %s:%d: %s\n", file.Path, is.Line, is.Message)
				} else {
					fmt.Fprintf(writer, "  %s: %s\n", file.Path, is.Message)
				}
			}
			if v.Evidence.Source == domain.EvidenceHardRule {
				for _, n := range v.Evidence.Lines {
					fmt.Fprintf(writer, "  %s:%d: line does not end with ';', '{' or '}'\n", file.Path, n)
				}
			}
		case file.Verdict.HasError():
			v := file.Verdict
			fmt.Fprintf(writer, "%s: %s (%s, not failing)\n", file.Path, p.warn(v.Category.String()), v.Language)
		}
	}

	s := result.Summary
	fmt.Fprintf(writer, "\nSummary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", s.FilesAnalyzed)
	fmt.Fprintf(writer, "  Files failed: %d\n", s.FilesFailed)
	if s.FilesErrored > 0 {
		fmt.Fprintf(writer, "  Files errored: %d\n", s.FilesErrored)
	}
	if len(s.ByCategory) > 0 {
		cats := make([]domain.Category, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			cats = append(cats, c)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
		fmt.Fprintf(writer, "  By category:\n")
		for _, c := range cats {
			fmt.Fprintf(writer, "    %s: %d\n", c, s.ByCategory[c])
		}
	}
	fmt.Fprintf(writer, "  Duration: %dms\n", result.Duration)

	if result.Passed {
		fmt.Fprintf(writer, "\n%s\n", p.good("PASSED"))
	} else {
		fmt.Fprintf(writer, "\n%s\n", p.bad("FAILED"))
	}
	return nil
}

// HighlightLines returns the 1-based lines to highlight for a verdict: issue
// lines, else the lines breaking the terminator rule. nil means no line is
// known.
func HighlightLines(v *domain.Verdict) map[int]bool {
	if v == nil || !v.HasError() {
		return map[int]bool{}
	}
	lines := map[int]bool{}
	for _, is := range v.Issues {
		if is.HasLine() {
			lines[is.Line] = true
		}
	}
	for _, n := range v.Evidence.Lines {
		lines[n] = true
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}

func describeEvidence(e domain.Evidence) string {
	switch e.Source {
	case domain.EvidenceHardRule:
		return fmt.Sprintf("hard rule %s (lines %s)", e.Rule, joinInts(e.Lines))
	case domain.EvidenceClassifier:
		return fmt.Sprintf("classifier (label %s)", e.Label)
	case domain.EvidenceThreshold:
		return fmt.Sprintf("confidence gate (label %s below threshold)", e.Label)
	default:
		return string(e.Source)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
