package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/pagekit/internal/config"
	"github.com/MeKo-Tech/pagekit/internal/logging"
	"github.com/MeKo-Tech/pagekit/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration file path.
	cfgFile string
	// Configuration of the current run.
	appConfig *config.Config
	// Logger and log file of the current run.
	logRun *logging.Run
	// Start of the current run; shared by the log file and every output name.
	runStarted time.Time
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pagekit",
	Short: "Batch toolkit for PDF documents and images",
	Long: `pagekit applies one document operation to every PDF (or image) in a
folder and writes timestamped results to an output folder.

Tools:
- select, number, resize, rotate and watermark pages
- merge, split and compress documents
- encrypt and decrypt with AES
- extract text and images, convert images to PDF, repair broken files

Examples:
  pagekit select --pages "1-3,7" -i input -o output
  pagekit number --position bottom-right
  pagekit merge --sort date docs/
  pagekit config init`,
	PersistentPreRunE: setupRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it until
// the command finishes or the process receives SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeRun()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is search in ., $HOME, $XDG_CONFIG_HOME/pagekit, /etc/pagekit)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json, text)")
	pf.StringP("input", "i", "input", "input folder, used when no files are given")
	pf.StringP("output", "o", "output", "output folder")
	pf.String("logs-dir", "logs", "folder for the per-run log file (empty disables it)")
	pf.Bool("version", false, "print version information and exit")

	pf.Bool("recursive", false, "descend into sub-folders of input folders")
	pf.Bool("continue-on-error", true, "keep going when a document fails")
	pf.Bool("progress", false, "draw a progress bar on stderr")
	pf.BoolP("quiet", "q", false, "do not print run statistics")
	pf.StringSlice("include", nil, "only process files matching these glob patterns")
	pf.StringSlice("exclude", nil, "skip files matching these glob patterns")
	pf.String("report-format", "text", "run report format (text, json, csv)")
	pf.String("report-file", "", "write the run report to this file")
	pf.String("metrics-textfile", "", "write run metrics in Prometheus text format to this file")

	bindings := map[string]string{
		"verbose":                 "verbose",
		"log_level":               "log-level",
		"log_format":              "log-format",
		"paths.input":             "input",
		"paths.output":            "output",
		"paths.logs":              "logs-dir",
		"batch.recursive":         "recursive",
		"batch.continue_on_error": "continue-on-error",
		"batch.progress":          "progress",
		"batch.quiet":             "quiet",
		"batch.include":           "include",
		"batch.exclude":           "exclude",
		"batch.report_format":     "report-format",
		"batch.report_file":       "report-file",
		"metrics.textfile":        "metrics-textfile",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// setupRun loads the configuration and installs the run logger. It runs
// before every tool command; the config commands override it.
func setupRun(cmd *cobra.Command, _ []string) error {
	if !cmd.HasParent() {
		return nil
	}
	closeRun()

	cfg, err := config.NewLoader().Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	appConfig = cfg
	runStarted = time.Now()

	run, err := logging.Setup(logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Verbose:   cfg.Verbose,
		Dir:       cfg.Paths.Logs,
		Timestamp: runStarted.Format(cfg.Batch.TimestampFormat),
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logRun = run
	slog.SetDefault(run.Logger)

	if used := viper.ConfigFileUsed(); used != "" {
		run.Logger.Debug("configuration loaded", "file", used)
	}
	return nil
}

func closeRun() {
	if logRun != nil {
		_ = logRun.Close()
		logRun = nil
	}
}
