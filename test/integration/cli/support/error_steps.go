package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastOutput
	if testCtx.LastError != nil {
		fullErrorText += " " + testCtx.LastError.Error()
	}

	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}
	return nil
}

// theExitCodeShouldBe verifies the process exit code.
func (testCtx *TestContext) theExitCodeShouldBe(code int) error {
	if testCtx.LastExitCode != code {
		return fmt.Errorf("expected exit code %d, got %d\nOutput: %s", code, testCtx.LastExitCode, testCtx.LastOutput)
	}
	return nil
}

// aWarningShouldBeLoggedAbout verifies a WARN record mentioning text.
func (testCtx *TestContext) aWarningShouldBeLoggedAbout(text string) error {
	for _, line := range strings.Split(testCtx.LastOutput, "\n") {
		if strings.Contains(line, `"level":"WARN"`) && strings.Contains(line, text) {
			return nil
		}
	}
	return fmt.Errorf("no warning about '%s' was logged\nOutput: %s", text, testCtx.LastOutput)
}

// theErrorShouldSuggestAvailableCommands checks cobra's unknown command hint.
func (testCtx *TestContext) theErrorShouldSuggestAvailableCommands() error {
	return testCtx.theErrorShouldMention("unknown command")
}

// RegisterErrorSteps registers error handling steps.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the exit code should be (\d+)$`, testCtx.theExitCodeShouldBe)
	sc.Step(`^a warning should be logged about "([^"]*)"$`, testCtx.aWarningShouldBeLoggedAbout)
	sc.Step(`^the error should suggest available commands$`, testCtx.theErrorShouldSuggestAvailableCommands)
}
