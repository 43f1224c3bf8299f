package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"k8s.io/klog"

	"github.com/bcaldwell/statementimporter/internal/server"
	"github.com/bcaldwell/statementimporter/internal/statementimporter"
	"github.com/bcaldwell/statementimporter/pkg/config"
	"github.com/bcaldwell/statementimporter/pkg/extractor"
	"github.com/bcaldwell/statementimporter/pkg/processor"
)

type Runner interface {
	Run() error
	Close() error
}

var (
	configFile  string
	secretsFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statementimporter",
		Short: "Import, classify and store bank account statements",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets", "./secrets.ejson", "secrets file")

	rootCmd.AddCommand(newImportCommand(), newWatchCommand(), newServeCommand(), newBanksCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunner(ctx context.Context) (*statementimporter.ImportStatementRunner, error) {
	if err := config.ReadConfig(config.DefaultConfigEnvVar, configFile, secretsFile); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return statementimporter.NewImportStatementRunnerFromConfig(ctx, processor.DefaultRegistry())
}

func newImportCommand() *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import statement files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			if bank == "" {
				bank = config.CurrentConfig().Bank
			}

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				result, err := runner.Import(cmd.Context(), bank, extractor.File{Name: filepath.Base(path), Data: data})
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}

				fmt.Printf("%s: %d new, %d already imported\n", path, result.Inserted, result.Skipped)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank the statements are from (defaults to the configured bank)")

	return cmd
}

func newWatchCommand() *cobra.Command {
	var singleRun bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import statements dropped into the import directory on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			run(runner)

			if singleRun {
				return nil
			}

			c := cron.New()
			if err := c.AddFunc(config.CurrentConfig().UpdateFrequency, skipIfRunning(func() { run(runner) })); err != nil {
				return fmt.Errorf("invalid updateFrequency %q: %w", config.CurrentConfig().UpdateFrequency, err)
			}

			c.Start()
			defer c.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			return nil
		},
	}

	cmd.Flags().BoolVar(&singleRun, "single-run", false, "run importer once (disable cron)")

	return cmd
}

func run(runner Runner) {
	klog.Infof("Starting import run at %s", time.Now().Format(time.RFC850))
	if err := runner.Run(); err != nil {
		klog.Errorf("Import run failed: %v", err)
	}
}

// skipIfRunning drops a cron tick that fires while the previous run of job
// is still going, cron itself starts every tick on its own goroutine.
func skipIfRunning(job func()) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			klog.Warningf("Previous import run still in progress, skipping this one")
			return
		}
		defer running.Store(false)
		job()
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Accept statement uploads over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			c := config.CurrentConfig()
			s := server.New(runner, c.Bank, c.Server.BodyLimitMB)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				if err := s.Shutdown(); err != nil {
					klog.Errorf("Failed to shut down server: %v", err)
				}
			}()

			return s.Listen(c.Server.Address)
		},
	}
}

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List the banks statements can be imported from",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range processor.DefaultRegistry().Names() {
				fmt.Println(name)
			}
		},
	}
}
