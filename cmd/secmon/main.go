package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackconsult/secmon/internal/check"
	"github.com/stackconsult/secmon/internal/config"
	"github.com/stackconsult/secmon/internal/logging"
	"github.com/stackconsult/secmon/internal/monitor"
	"github.com/stackconsult/secmon/internal/output"
	"github.com/stackconsult/secmon/internal/preflight"
	"github.com/stackconsult/secmon/internal/scan"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	cfgFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "secmon",
		Short: "Recurring security scans for a Python service",
		Long: `secmon runs a fixed battery of security checks against a project
directory: a dependency vulnerability scan (safety), a static analysis
pass (bandit), and the project's test suite (pytest).

It can run the battery once or keep repeating it on a fixed interval,
reporting every check in every round regardless of failures.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/secmon/config.yaml)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "project directory to scan (default: current directory)")
	rootCmd.PersistentFlags().String("source-dir", "", "source directory for static analysis, relative to target")
	rootCmd.PersistentFlags().String("test-entry", "", "test file or directory passed to pytest")
	rootCmd.PersistentFlags().String("report", "", "static analysis report path, relative to target")
	rootCmd.PersistentFlags().IntP("iterations", "n", 0, "number of scan rounds to run")
	rootCmd.PersistentFlags().IntP("interval", "i", 0, "seconds to wait between rounds")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for automation)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	viper.BindPFlag("target.path", rootCmd.PersistentFlags().Lookup("target"))
	viper.BindPFlag("target.source_dir", rootCmd.PersistentFlags().Lookup("source-dir"))
	viper.BindPFlag("target.test_entry", rootCmd.PersistentFlags().Lookup("test-entry"))
	viper.BindPFlag("target.report", rootCmd.PersistentFlags().Lookup("report"))
	viper.BindPFlag("monitor.iterations", rootCmd.PersistentFlags().Lookup("iterations"))
	viper.BindPFlag("monitor.interval_seconds", rootCmd.PersistentFlags().Lookup("interval"))

	cobra.OnInitialize(func() {
		if err := config.InitConfig(cfgFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
	})

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [flags]",
		Short: "Run a single scan round",
		Long:  `Run the full check battery once against the target directory.`,
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	runner := scan.New(cfg.GetTargetPath(), standardChecks(cfg), log)
	round := runner.RunRound(cmd.Context(), 1)

	if jsonOutput {
		if err := output.PrintJSON(os.Stdout, round); err != nil {
			return err
		}
	} else if !quiet {
		output.PrintRound(os.Stdout, round)
	}

	if round.FailedChecks() > 0 {
		os.Exit(1)
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [flags]",
		Short: "Run scan rounds on a fixed interval",
		Long: `Run the check battery repeatedly: a fixed number of rounds with a
fixed pause between them. Every check runs in every round; failures are
reported and never stop the loop. Ctrl-C stops between checks.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	runner := scan.New(cfg.GetTargetPath(), standardChecks(cfg), log)

	loop, err := monitor.New(monitor.Config{
		Iterations: cfg.Monitor.Iterations,
		Interval:   cfg.Interval(),
	}, runner, monitor.WithLogger(log), monitor.WithQuiet(quiet || jsonOutput))
	if err != nil {
		return err
	}

	sum, runErr := loop.Run(cmd.Context())

	if jsonOutput {
		if err := output.PrintJSON(os.Stdout, sum); err != nil {
			return err
		}
	} else if !quiet {
		output.PrintSummary(os.Stdout, sum)
	}

	if runErr != nil {
		return runErr
	}
	if sum.FailedChecks() > 0 {
		os.Exit(1)
	}
	return nil
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check scan tools and host environment",
		Long: `Verify that the scan tools are installed and report host facts,
including scan-tool processes already running.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	report := preflight.Run(cmd.Context(), preflight.RequiredTools())

	if jsonOutput {
		if err := output.PrintJSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		preflight.PrintReport(os.Stdout, report)
	}

	if !report.OK() {
		return fmt.Errorf("required scan tools missing from PATH")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("secmon version %s\n", Version)
			fmt.Printf("Build time: %s\n", BuildTime)

			for _, tool := range preflight.CheckTools(cmd.Context(), preflight.RequiredTools()) {
				switch {
				case !tool.Found:
					fmt.Printf("%s: not found\n", tool.Name)
				case tool.Version != "":
					fmt.Printf("%s: %s\n", tool.Name, tool.Version)
				default:
					fmt.Printf("%s: %s\n", tool.Name, tool.Path)
				}
			}
		},
	}
}

func standardChecks(cfg *config.Config) []check.Checker {
	return check.Standard(check.Options{
		SourceDir: cfg.GetSourceDir(),
		TestEntry: cfg.GetTestEntry(),
		Report:    cfg.GetReport(),
	})
}
