package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jon/internal/pid"
)

var killSettle time.Duration

var killCmd = &cobra.Command{
	Use:   "kill <pid>",
	Short: "boot a kernel and stop one of its tasks",
	Long: `kill boots a kernel, lets it settle, then issues SYS_KILL for the named
task through the same syscall ABI a task would use on itself or a peer —
closing every descriptor it owns before removing it from every PCR's ready
queue and the scheduler's blocked set.`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
	killCmd.Flags().DurationVar(&killSettle, "settle", 200*time.Millisecond, "how long to let the kernel tick before killing")
}

func runKill(cmd *cobra.Command, args []string) error {
	target, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("kill: invalid pid %q: %w", args[0], err)
	}

	k, stop, err := settleKernel(killSettle)
	if err != nil {
		return fmt.Errorf("kill: %w", err)
	}
	defer stop()

	if err := k.OperatorClient().Kill(pid.PID(target)); err != nil {
		return fmt.Errorf("kill: %w", err)
	}

	fmt.Printf("killed %d\n", target)
	return nil
}
