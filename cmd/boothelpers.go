package cmd

import (
	"context"
	"time"

	"jon/internal/kernel"
)

// settleKernel boots a fresh Kernel, drives its tick loop in the
// background for settle so the builtin drivers finish their first pipe
// handshakes, and returns it along with a stop func. Every subcommand but
// `boot` uses this instead of attaching to a long-running process, since
// jon has no daemon/client split to attach to.
func settleKernel(settle time.Duration) (*kernel.Kernel, func(), error) {
	cfg := kernel.DefaultConfig()
	cfg.CPUs = globalCPUs
	k := kernel.New(cfg)

	if err := k.Boot(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		k.Run(ctx)
		close(done)
	}()

	time.Sleep(settle)

	stop := func() {
		cancel()
		<-done
	}
	return k, stop, nil
}
