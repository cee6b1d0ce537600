// Command nimblesteps-demo wires a pending step window and an
// authoritative step buffer together behind a UDP listener. Each received
// datagram (a 4-byte big-endian step id followed by the step payload) is
// fed to the pending window, and buffered steps are drained and logged
// until the process is interrupted; the demo sends no datagrams itself.
// It is a demonstration harness, not a test target: the core library
// carries no transport of its own.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nimblesteps/nimblesteps-go"
	"github.com/nimblesteps/nimblesteps-go/logx"
	"github.com/nimblesteps/nimblesteps-go/slab"
	"github.com/nimblesteps/nimblesteps-go/transport"
)

func main() {
	var (
		addrFlag    = flag.String("addr", "127.0.0.1:0", "UDP address to listen on")
		verboseFlag = flag.Bool("v", false, "verbose output")
	)
	flag.Parse()

	level := logx.LevelInfo
	if *verboseFlag {
		level = logx.LevelDebug
	}
	logger := logx.New("demo", &logx.Config{Level: level, Output: os.Stderr})

	ln, err := transport.Listen(*addrFlag)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	logger.Info("listening", "addr", ln.LocalAddr().String())

	opts := nimblesteps.DefaultOptions()
	opts.Allocator = slab.NewAllocator(opts.MaxCombinedOctetSize)
	opts.Log = logger

	pending := nimblesteps.NewPendingWindow(0, opts)
	auth, err := nimblesteps.NewAuthBuffer(opts)
	if err != nil {
		log.Fatalf("new auth buffer: %v", err)
	}
	auth.ReInit(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go runDrainLoop(ctx, logger, pending, auth)

	err = ln.Run(ctx, func(dg transport.Datagram) {
		handleDatagram(logger, pending, dg)
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("listener stopped", "err", err)
	}
}

func handleDatagram(logger *logx.Logger, pending *nimblesteps.PendingWindow, dg transport.Datagram) {
	if len(dg.Data) < 5 {
		logger.Warn("datagram too small to carry a step id and payload", "from", dg.From.String())
		return
	}
	stepID := nimblesteps.StepID(
		uint32(dg.Data[0])<<24 | uint32(dg.Data[1])<<16 | uint32(dg.Data[2])<<8 | uint32(dg.Data[3]),
	)
	payload := dg.Data[4:]

	result, err := pending.TrySet(stepID, payload)
	if err != nil {
		logger.Error("trySet failed", "stepId", stepID, "err", err)
		return
	}
	logger.Debug("trySet", "stepId", stepID, "result", result, "from", dg.From.String())
}

func runDrainLoop(ctx context.Context, logger *logx.Logger, pending *nimblesteps.PendingWindow, auth *nimblesteps.AuthBuffer) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pending.CopyTo(auth); err != nil {
				logger.Error("copy pipeline failed", "err", err)
				continue
			}
			drainReady(logger, auth)
		}
	}
}

func drainReady(logger *logx.Logger, auth *nimblesteps.AuthBuffer) {
	out := make([]byte, nimblesteps.DefaultMaxCombinedOctetSize)
	for {
		if _, ok := auth.Peek(); !ok {
			return
		}
		id, n, err := auth.Read(out)
		if err != nil {
			logger.Error("read failed", "err", err)
			return
		}
		logger.Info("delivered step", "stepId", id, "bytes", n)
	}
}
