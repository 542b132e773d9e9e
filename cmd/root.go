// Package cmd implements the CLI commands for jon, the simulated
// preemptive x86_64 microkernel.
//
// There is no persistent daemon/state-directory split the way runc has
// one per container: jon's kernel lives entirely in one OS process for
// the duration of a single CLI invocation, so every subcommand except
// `boot` creates its own short-lived Kernel, does its one thing against
// it, and exits. `boot` is the long-running one — it keeps the kernel
// alive until interrupted, the way a real kernel would.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jon/internal/klog"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags
var (
	globalLog       string
	globalLogFormat string
	globalDebug     bool
	globalCPUs      int
)

// rootCmd is the base command for jon.
var rootCmd = &cobra.Command{
	Use:   "jon",
	Short: "a simulated preemptive x86_64 microkernel",
	Long: `jon boots a preemptive microkernel simulation in a single host
process: a scheduler, a syscall ABI, a scheme/pipe IPC layer, and five
builtin driver tasks running as goroutines behind the same ABI a compiled
binary would get.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&globalCPUs, "cpus", 1, "number of simulated CPUs")
}

func setupLogging() {
	var logOutput io.Writer = os.Stderr
	if globalLog != "" {
		sink, err := klog.OpenFileSink(globalLog)
		if err == nil {
			logOutput = sink
		}
	}

	logLevel := slog.LevelInfo
	if globalDebug {
		logLevel = slog.LevelDebug
	}

	klog.SetDefault(klog.NewLogger(klog.Config{
		Level:  logLevel,
		Format: globalLogFormat,
		Output: logOutput,
	}))
}
