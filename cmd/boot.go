package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jon/internal/drivers/ps2hostbridge"
	"jon/internal/kernel"
)

var bootInteractive bool

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "boot the kernel and run until interrupted",
	Long: `boot constructs a Kernel, runs spec.md's boot flow (memory init, one
PCR per CPU, scheme registration, the five builtin drivers, interrupts
enabled), then ticks until SIGINT/SIGTERM.

With --interactive, the host terminal is put in raw mode and bridged into
the ps2 scheme, so host keystrokes become the bytes a read of "ps2:"
returns, the way a physical keyboard would feed a real kernel's interrupt
handler.`,
	Args: cobra.NoArgs,
	RunE: runBoot,
}

func init() {
	rootCmd.AddCommand(bootCmd)
	bootCmd.Flags().BoolVarP(&bootInteractive, "interactive", "i", false, "bridge the host terminal into the ps2 scheme")
}

func runBoot(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	cfg := kernel.DefaultConfig()
	cfg.CPUs = globalCPUs
	k := kernel.New(cfg)

	if bootInteractive {
		bridge, err := ps2hostbridge.Open(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("boot --interactive: %w", err)
		}
		defer bridge.Restore()
		k.AttachPs2(bridge)
	}

	if err := k.Boot(); err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	return k.Run(ctx)
}
