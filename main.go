// jon is a simulated preemptive x86_64 microkernel.
//
// Commands:
//
//	boot    - boot the kernel and run until interrupted
//	spawn   - boot a kernel and spawn one more builtin driver instance
//	ps      - boot a kernel and list its tasks
//	state   - output a single task's state as JSON
//	kill    - boot a kernel and stop one of its tasks
//	version - print version information
package main

import (
	"fmt"
	"os"

	"jon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
