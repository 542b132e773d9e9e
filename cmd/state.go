package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jon/internal/pid"
)

var stateSettle time.Duration

var stateCmd = &cobra.Command{
	Use:   "state <pid>",
	Short: "output a single task's state as JSON",
	Long:  `state boots a kernel, lets it settle, then prints the scheduler's entry for one task (pid, name, state, priority, quantum) as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().DurationVar(&stateSettle, "settle", 200*time.Millisecond, "how long to let the kernel tick before sampling")
}

type taskState struct {
	PID      uint64 `json:"pid"`
	Name     string `json:"name"`
	State    string `json:"state"`
	Priority string `json:"priority"`
	Quantum  int    `json:"quantum"`
}

func runState(cmd *cobra.Command, args []string) error {
	target, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("state: invalid pid %q: %w", args[0], err)
	}

	k, stop, err := settleKernel(stateSettle)
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}
	defer stop()

	t, ok := k.Sched.Get(pid.PID(target))
	if !ok {
		return fmt.Errorf("state: no such task: %d", target)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(taskState{
		PID:      uint64(t.PID),
		Name:     t.Name,
		State:    t.State.String(),
		Priority: t.Priority.String(),
		Quantum:  t.Quantum,
	})
}
