package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Workspace folder names, matching the pagekit defaults.
const (
	InputFolder  = "input"
	OutputFolder = "output"
	LogsFolder   = "logs"
)

// TestContext holds the state for integration tests. Every scenario runs
// pagekit inside its own temporary workspace, so the default input, output
// and logs folders never touch the repository.
type TestContext struct {
	// Command execution state
	LastCommand    string
	LastOutput     string
	LastError      error
	LastExitCode   int
	LastStartTime  time.Time
	LastDuration   time.Duration
	LastOutputFile string

	// Test environment
	WorkingDir string
	EnvVars    []string
}

// NewTestContext creates a scenario workspace holding an empty input folder.
func NewTestContext() (*TestContext, error) {
	workDir, err := os.MkdirTemp("", "pagekit-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(workDir, InputFolder), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create input folder: %w", err)
	}

	return &TestContext{
		WorkingDir: workDir,
		EnvVars:    []string{},
	}, nil
}

// Cleanup removes the scenario workspace.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.WorkingDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove workspace %s: %w", testCtx.WorkingDir, err)
	}
	return nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, fmt.Sprintf("%s=%s", name, value))
}

// Path resolves a workspace-relative path.
func (testCtx *TestContext) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(testCtx.WorkingDir, rel)
}

// InputPath returns the path of name inside the input folder.
func (testCtx *TestContext) InputPath(name string) string {
	return filepath.Join(testCtx.WorkingDir, InputFolder, name)
}
