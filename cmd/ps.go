package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var psSettle time.Duration

var psCmd = &cobra.Command{
	Use:     "ps",
	Aliases: []string{"list"},
	Short:   "boot a kernel and list its tasks",
	Long: `ps boots a kernel, lets its builtin drivers settle, then prints the
scheduler's task table — the same data the taskmgr driver reads from the
proc scheme and renders to the vga scheme.`,
	Args: cobra.NoArgs,
	RunE: runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
	psCmd.Flags().DurationVar(&psSettle, "settle", 200*time.Millisecond, "how long to let the kernel tick before sampling")
}

func runPs(cmd *cobra.Command, args []string) error {
	k, stop, err := settleKernel(psSettle)
	if err != nil {
		return fmt.Errorf("ps: %w", err)
	}
	defer stop()

	tasks := k.Sched.Snapshot()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tNAME\tSTATE\tPRIORITY\tQUANTUM")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", t.PID, t.Name, t.State, t.Priority, t.Quantum)
	}
	return w.Flush()
}
