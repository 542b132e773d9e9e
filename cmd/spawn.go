package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jon/internal/syscallabi"
)

var spawnSettle time.Duration

var driverIndex = map[string]int{
	"idle":          0,
	"reincarnation": 1,
	"random":        2,
	"random-echo":   3,
	"taskmgr":       4,
}

var spawnCmd = &cobra.Command{
	Use:   "spawn <driver>",
	Short: "boot a kernel and spawn one more instance of a builtin driver",
	Long: `spawn boots a kernel, lets it settle, then calls the kernel's spawn
handler (the one SYS_SPAWN dispatches to) directly for the
named builtin driver (idle, reincarnation, random, random-echo, taskmgr)
and prints the PID it was assigned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpawn,
}

func init() {
	rootCmd.AddCommand(spawnCmd)
	spawnCmd.Flags().DurationVar(&spawnSettle, "settle", 200*time.Millisecond, "how long to let the kernel tick before spawning")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	index, ok := driverIndex[args[0]]
	if !ok {
		return fmt.Errorf("spawn: unknown driver %q (want one of idle, reincarnation, random, random-echo, taskmgr)", args[0])
	}

	k, stop, err := settleKernel(spawnSettle)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	defer stop()

	newPID, err := k.Spawn(syscallabi.CallerContext{CPU: 0}, index)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	fmt.Printf("spawned %s as pid %d\n", args[0], newPID)
	return nil
}
