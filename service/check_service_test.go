package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/syntaxcheck/domain"
	"github.com/ludo-technologies/syntaxcheck/internal/config"
	"github.com/ludo-technologies/syntaxcheck/internal/constants"
)

// memReader serves files from memory
type memReader map[string]string

func (m memReader) CollectSourceFiles(paths []string, _ bool, _, _ []string) ([]string, error) {
	return paths, nil
}

func (m memReader) ReadFile(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (m memReader) IsSourceFile(path string) bool { return true }

func (m memReader) FileExists(path string) (bool, error) {
	_, ok := m[path]
	return ok, nil
}

// blockingDetection waits for cancellation on every call
type blockingDetection struct{}

func (blockingDetection) Detect(ctx context.Context, _ domain.DetectRequest) (*domain.Verdict, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCheckService_CleanRun(t *testing.T) {
	reader := memReader{
		"ok.py":     "def f():\n    return 1\n",
		"Main.java": "public class Main {\n    int x = 1;\n}\n",
	}
	svc := NewCheckService(newDetection(t), reader, &config.DefaultConfig().Check)

	result, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"ok.py", "Main.java"}})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, constants.ExitClean, result.ExitCode)
	assert.Equal(t, 2, result.Summary.FilesAnalyzed)
	assert.Zero(t, result.Summary.FilesFailed)
	assert.Equal(t, 1, result.Summary.ByLanguage[domain.LanguagePython])
	assert.Equal(t, 1, result.Summary.ByLanguage[domain.LanguageJava])
	assert.Empty(t, result.Summary.ByCategory)
	assert.NotEmpty(t, result.GeneratedAt)
}

func TestCheckService_ErrorsFound(t *testing.T) {
	reader := memReader{
		"bad.py": "def f()\n    return 1\n",
		"bad.c":  "int main() {\n    int x = 1\n}\n",
		"ok.py":  "x = 1\n",
	}
	svc := NewCheckService(newDetection(t), reader, &config.CheckConfig{Concurrency: 2})

	result, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"bad.py", "bad.c", "ok.py"}})
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, constants.ExitErrorsFound, result.ExitCode)
	assert.Equal(t, 2, result.Summary.FilesFailed)
	assert.Equal(t, 1, result.Summary.ByCategory[domain.CategoryMissingColon])
	assert.Equal(t, 1, result.Summary.ByCategory[domain.CategoryMissingDelimiter])

	// Results keep the request order.
	require.Len(t, result.Files, 3)
	assert.Equal(t, "bad.py", result.Files[0].Path)
	assert.True(t, result.Files[0].Failed)
	assert.True(t, result.Files[1].Failed)
	assert.False(t, result.Files[2].Failed)
}

func TestCheckService_CategoryFilter(t *testing.T) {
	reader := memReader{
		"bad.py": "def f()\n    return 1\n",
		"bad.c":  "int x = 1\n",
	}
	svc := NewCheckService(newDetection(t), reader, nil)

	result, err := svc.Check(context.Background(), domain.CheckRequest{
		Paths:      []string{"bad.py", "bad.c"},
		Categories: []domain.Category{domain.CategoryMissingColon},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.FilesFailed)
	assert.True(t, result.Files[0].Failed)
	assert.False(t, result.Files[1].Failed, "categories outside the filter do not fail the check")
	assert.Equal(t, 1, result.Summary.ByCategory[domain.CategoryMissingDelimiter])
	assert.Equal(t, constants.ExitErrorsFound, result.ExitCode)
}

func TestCheckService_UnreadableFile(t *testing.T) {
	var buf bytes.Buffer
	reader := memReader{"ok.py": "x = 1\n"}
	svc := NewCheckService(newDetection(t), reader, nil)
	svc.SetLogger(log.New(&buf, "", 0))

	result, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"ok.py", "missing.py"}})
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, constants.ExitAnalysisError, result.ExitCode)
	assert.Equal(t, 1, result.Summary.FilesErrored)
	assert.Equal(t, 1, result.Summary.FilesAnalyzed)
	assert.NotEmpty(t, result.Files[1].Error)
	assert.Contains(t, buf.String(), "missing.py")
}

func TestCheckService_ProgressReported(t *testing.T) {
	pm := &recordingProgress{}
	reader := memReader{"a.py": "x = 1\n", "b.py": "y = 2\n"}
	svc := NewCheckService(newDetection(t), reader, nil)
	svc.SetProgressManager(pm)
	svc.SetProgressManager(nil)

	_, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"a.py", "b.py"}})
	require.NoError(t, err)

	assert.Equal(t, "Checking files", pm.description)
	assert.Equal(t, 2, pm.increments)
	assert.True(t, pm.completed)
}

func TestCheckService_Timeout(t *testing.T) {
	reader := memReader{"a.py": "x = 1\n", "b.py": "y = 2\n", "c.py": "z = 3\n"}
	svc := NewCheckService(blockingDetection{}, reader, &config.CheckConfig{Concurrency: 1, TimeoutSeconds: 1})

	start := time.Now()
	result, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"a.py", "b.py", "c.py"}})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, constants.ExitAnalysisError, result.ExitCode)
	assert.Equal(t, 3, result.Summary.FilesErrored)
	for _, f := range result.Files {
		assert.NotEmpty(t, f.Error, f.Path)
	}
}

func TestCheckService_CancelledBeforeStart(t *testing.T) {
	reader := memReader{"a.py": "x = 1\n"}
	svc := NewCheckService(newDetection(t), reader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Check(ctx, domain.CheckRequest{Paths: []string{"a.py"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	var de domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeAnalysisError, de.Code)
	assert.True(t, strings.Contains(err.Error(), "batch check failed"))
}
