package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// notifyInterrupt returns a context cancelled on the first SIGINT or
// SIGTERM. The container being processed is abandoned and the rest of the
// pass is skipped. cancel releases the signal registration.
func notifyInterrupt(parent context.Context, w io.Writer) (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := cancelOnSignal(parent, w, sigs)
	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

// cancelOnSignal cancels the returned context when a signal arrives on sigs.
func cancelOnSignal(parent context.Context, w io.Writer, sigs <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case sig := <-sigs:
			log.Printf("Received signal: %v", sig)
			fmt.Fprintln(w, "\nInterrupted, skipping remaining containers...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
