package service

import (
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

// ciEnvVars are set by common CI providers; progress bars are noise in their logs.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "JENKINS_URL", "TF_BUILD"}

// maxLabelWidth keeps the bar from jumping as file names change
const maxLabelWidth = 28

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI.
func IsInteractiveEnvironment() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return false
		}
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProgressManagerImpl renders one file-count bar per task
type ProgressManagerImpl struct {
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

// NewProgressManager returns a bar renderer on stderr when enabled and
// interactive, and a no-op manager otherwise.
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return &NoOpProgressManager{}
}

// NewProgressManagerWithWriter creates a progress manager rendering to w.
func NewProgressManagerWithWriter(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

// StartTask starts a bar counting total files
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
	pm.bars = append(pm.bars, bar)
	return &TaskProgressImpl{bar: bar, prefix: description}
}

func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes every bar; it is safe to call more than once
func (pm *ProgressManagerImpl) Close() {
	for _, bar := range pm.bars {
		_ = bar.Finish()
	}
	pm.bars = nil
}

// TaskProgressImpl advances one bar
type TaskProgressImpl struct {
	bar    *progressbar.ProgressBar
	prefix string
}

func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe shows the file that just finished next to the task name
func (tp *TaskProgressImpl) Describe(path string) {
	tp.bar.Describe(tp.prefix + " " + shortLabel(path))
}

func (tp *TaskProgressImpl) Complete() {
	_ = tp.bar.Finish()
}

// shortLabel reduces path to its base name, truncated from the left
func shortLabel(path string) string {
	name := []rune(filepath.Base(path))
	if len(name) <= maxLabelWidth {
		return string(name)
	}
	return "…" + string(name[len(name)-maxLabelWidth+1:])
}

// NoOpProgressManager is used for non-interactive and machine readable runs
type NoOpProgressManager struct{}

func (pm *NoOpProgressManager) StartTask(string, int) domain.TaskProgress { return &NoOpTaskProgress{} }
func (pm *NoOpProgressManager) IsInteractive() bool { return false }
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress discards all updates
type NoOpTaskProgress struct{}

func (tp *NoOpTaskProgress) Increment(int) {}
func (tp *NoOpTaskProgress) Describe(string) {}
func (tp *NoOpTaskProgress) Complete() {}
