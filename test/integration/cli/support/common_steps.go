package support

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// iRunCommand executes a command inside the workspace and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldNotContain verifies the output lacks specific text.
func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// theEnvironmentVariableIsSetTo sets a variable for the following commands.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

// aFileContainingInTheInputFolder writes a plain file into the input folder.
func (testCtx *TestContext) aFileContainingInTheInputFolder(name, content string) error {
	return os.WriteFile(testCtx.InputPath(name), []byte(content), 0o600)
}

// outputFiles lists the regular files in the output folder.
func (testCtx *TestContext) outputFiles() ([]string, error) {
	entries, err := os.ReadDir(testCtx.Path(OutputFolder))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// theOutputFolderShouldContainFiles verifies the number of artifacts.
func (testCtx *TestContext) theOutputFolderShouldContainFiles(n int) error {
	files, err := testCtx.outputFiles()
	if err != nil {
		return err
	}
	if len(files) != n {
		return fmt.Errorf("expected %d output files, found %d: %v", n, len(files), files)
	}
	return nil
}

// theOutputFolderShouldContainAFileEndingWith finds an artifact by suffix and
// remembers it for the following steps.
func (testCtx *TestContext) theOutputFolderShouldContainAFileEndingWith(suffix string) error {
	files, err := testCtx.outputFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if strings.HasSuffix(f, suffix) {
			testCtx.LastOutputFile = filepath.Join(testCtx.Path(OutputFolder), f)
			return nil
		}
	}
	return fmt.Errorf("no output file ends with %q: %v", suffix, files)
}

// theFileShouldExist verifies a workspace file exists.
func (testCtx *TestContext) theFileShouldExist(filename string) error {
	if _, err := os.Stat(testCtx.Path(filename)); err != nil {
		return fmt.Errorf("file %s does not exist: %w", filename, err)
	}
	return nil
}

// theFileShouldContain verifies a workspace file holds some text.
func (testCtx *TestContext) theFileShouldContain(filename, expectedContent string) error {
	data, err := os.ReadFile(testCtx.Path(filename))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !strings.Contains(string(data), expectedContent) {
		return fmt.Errorf("file %s does not contain '%s'\nContent: %s", filename, expectedContent, string(data))
	}
	return nil
}

// aLogFileShouldExistInTheLogsFolder verifies the per-run log file.
func (testCtx *TestContext) aLogFileShouldExistInTheLogsFolder() error {
	matches, err := filepath.Glob(filepath.Join(testCtx.Path(LogsFolder), "*_log.log"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return errors.New("no log file found in the logs folder")
	}
	return nil
}

// theOutputShouldListAvailableSubcommands checks the help text.
func (testCtx *TestContext) theOutputShouldListAvailableSubcommands() error {
	for _, name := range []string{"select", "number", "merge", "encrypt", "extract", "config"} {
		if err := testCtx.theOutputShouldContain(name); err != nil {
			return err
		}
	}
	return testCtx.theOutputShouldContain("Available Commands:")
}

// registerCommandSteps registers command execution steps.
func (testCtx *TestContext) registerCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}

// registerOutputSteps registers console output steps.
func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should list available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)
}

// registerFileSteps registers workspace file steps.
func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a file "([^"]*)" containing "([^"]*)" in the input folder$`, testCtx.aFileContainingInTheInputFolder)
	sc.Step(`^the output folder should contain (\d+) files?$`, testCtx.theOutputFolderShouldContainFiles)
	sc.Step(`^the output folder should contain a file ending with "([^"]*)"$`, testCtx.theOutputFolderShouldContainAFileEndingWith)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^a log file should exist in the logs folder$`, testCtx.aLogFileShouldExistInTheLogsFolder)
}

// RegisterCommonSteps registers all common step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerCommandSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerFileSteps(sc)
}
