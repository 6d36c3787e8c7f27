package service

import (
	"bytes"
	"testing"

	"github.com/ludo-technologies/syntaxcheck/domain"
)

func TestNewProgressManager_NonInteractive(t *testing.T) {
	// When disabled, should return NoOpProgressManager
	pm := NewProgressManager(false)
	if pm.IsInteractive() {
		t.Error("expected non-interactive progress manager when disabled")
	}

	var _ domain.ProgressManager = pm
}

func TestIsInteractiveEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractiveEnvironment() {
		t.Error("expected CI environment to be non-interactive")
	}

	pm := NewProgressManager(true)
	if pm.IsInteractive() {
		t.Error("expected no-op progress manager under CI")
	}
}

func TestNoOpProgressManager(t *testing.T) {
	pm := &NoOpProgressManager{}

	if pm.IsInteractive() {
		t.Error("expected NoOpProgressManager.IsInteractive() to return false")
	}

	task := pm.StartTask("test", 100)
	if task == nil {
		t.Fatal("expected non-nil task from StartTask")
	}

	// All operations should be no-ops (not panic)
	task.Increment(10)
	task.Describe("testing")
	task.Complete()
	pm.Close()
}

func TestProgressManagerImpl_RendersToWriter(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManagerWithWriter(&buf)

	task := pm.StartTask("Checking files", 2)
	task.Increment(1)
	task.Describe("main.py")
	task.Increment(1)
	task.Complete()
	pm.Close()

	if !pm.IsInteractive() {
		t.Error("expected ProgressManagerImpl to be interactive")
	}
	if buf.Len() == 0 {
		t.Error("expected progress output to be written")
	}
}

func TestProgressManagerImpl_Interface(t *testing.T) {
	var _ domain.ProgressManager = &ProgressManagerImpl{}
	var _ domain.TaskProgress = &TaskProgressImpl{}
	var _ domain.TaskProgress = &NoOpTaskProgress{}
}

func TestShortLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/pkg/main.py", "main.py"},
		{"Main.java", "Main.java"},
		{"a/very_long_generated_module_name_v2.py", "…generated_module_name_v2.py"},
	}

	for _, tt := range tests {
		got := shortLabel(tt.path)
		if got != tt.want {
			t.Errorf("shortLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
		if n := len([]rune(got)); n > maxLabelWidth {
			t.Errorf("shortLabel(%q) is %d runes, want at most %d", tt.path, n, maxLabelWidth)
		}
	}
}
