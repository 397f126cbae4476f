package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/config"
	"github.com/MeKo-Tech/pagekit/internal/logging"
	"github.com/MeKo-Tech/pagekit/internal/metrics"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

// currentConfig returns the configuration loaded for this run.
func currentConfig() *config.Config {
	if appConfig == nil {
		cfg := config.DefaultConfig()
		appConfig = &cfg
	}
	return appConfig
}

func runLogger() *slog.Logger {
	if logRun == nil {
		return slog.Default()
	}
	return logRun.Logger
}

// pageRanges parses the --pages flag. An empty flag means every page and
// yields a nil list.
func pageRanges(cmd *cobra.Command) (pagerange.List, error) {
	spec, _ := cmd.Flags().GetString("pages")
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	list, err := pagerange.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid --pages: %w", err)
	}
	return list, nil
}

// discoverInputs expands the positional args, or the configured input
// folder when there are none, into the files the tool accepts.
func discoverInputs(args, extensions []string) ([]string, error) {
	cfg := currentConfig()
	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.Paths.Input}
	}
	return batch.Discover(paths, batch.DiscoverOptions{
		Extensions: extensions,
		Recursive:  cfg.Batch.Recursive,
		Include:    cfg.Batch.Include,
		Exclude:    cfg.Batch.Exclude,
	})
}

func newRunner(cmd *cobra.Command, tool string) *batch.Runner {
	cfg := currentConfig()
	logger := logging.ForTool(runLogger(), tool)

	var progress batch.ProgressCallback = batch.NewLogProgressCallback(logger, slog.LevelDebug)
	if cfg.Batch.Progress {
		progress = batch.NewMultiProgressCallback(
			batch.NewConsoleProgressCallback(cmd.ErrOrStderr(), tools.Title(tool)+": "),
			progress,
		)
	}

	return &batch.Runner{
		Logger:          logger,
		Metrics:         metrics.NewRecorder(),
		Progress:        progress,
		Naming:          batch.NewNaming(cfg.Paths.Output, cfg.Batch.TimestampFormat, runStarted),
		ContinueOnError: cfg.Batch.ContinueOnError,
	}
}

// runTool applies fn to every discovered input.
func runTool(cmd *cobra.Command, args []string, tool string, extensions []string, fn batch.ProcessFunc) error {
	files, err := discoverInputs(args, extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logging.ForTool(runLogger(), tool).Warn(fmt.Sprintf("no %s files found", strings.Join(extensions, "/")))
		return nil
	}

	runner := newRunner(cmd, tool)
	res, runErr := runner.Run(cmd.Context(), tool, files, fn)
	return finishRun(cmd, runner, res, runErr)
}

// runGroupTool hands every discovered input to fn at once.
func runGroupTool(cmd *cobra.Command, args []string, tool string, extensions []string, fn batch.GroupFunc) error {
	files, err := discoverInputs(args, extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logging.ForTool(runLogger(), tool).Warn(fmt.Sprintf("no %s files found", strings.Join(extensions, "/")))
		return nil
	}

	runner := newRunner(cmd, tool)
	res, runErr := runner.RunGroup(cmd.Context(), tool, files, fn)
	return finishRun(cmd, runner, res, runErr)
}

// finishRun prints statistics, saves the report and metrics, and turns
// failed documents into a non-zero exit.
func finishRun(cmd *cobra.Command, runner *batch.Runner, res *batch.Result, runErr error) error {
	cfg := currentConfig()

	if !cfg.Batch.Quiet {
		res.PrintStats(cmd.OutOrStdout())
	}

	var errs []error
	if cfg.Batch.ReportFile != "" {
		if err := res.SaveReport(cfg.Batch.ReportFormat, cfg.Batch.ReportFile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := runner.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		errs = append(errs, err)
	}

	if runErr != nil {
		errs = append(errs, runErr)
	} else if failed := res.Failed(); failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d documents failed", failed, len(res.Items)))
	}
	return errors.Join(errs...)
}
