package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/daylog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 50
)

const logsDir = "./stress_logs"

var levels = []daylog.Level{
	daylog.LevelVerbose,
	daylog.LevelDebug,
	daylog.LevelInfo,
	daylog.LevelWarning,
	daylog.LevelError,
}

func generateRandomMessage(rng *rand.Rand, size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rng.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(logger *daylog.Logger, rng *rand.Rand, burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rng.Intn(len(levels))]
		size := rng.Intn(maxMessageSize) + 10
		seq := i
		logger.Log(level, func() string {
			return generateRandomMessage(rng, size)
		}, map[string]int{"bst": burstID, "seq": seq})
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")
	_ = os.RemoveAll(logsDir) // Clean previous run

	logger, err := daylog.NewBuilder().
		LevelString("debug").
		Directory(logsDir).
		EnableFile(true).
		MaxFiles(3).
		RollingFile(logsDir+"/rolling/stress.log", 1, 5).
		FlushTimeoutMs(10000).
		InternalErrorsToStderr(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logger initialized. Logs will be written to: %s\n", logsDir)
	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var completedBursts atomic.Int64
	var nextBurst atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	startTime := time.Now()
	for w := 0; w < numWorkers; w++ {
		seed := time.Now().UnixNano() + int64(w)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for {
				burstID := int(nextBurst.Add(1))
				if burstID > totalBursts {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				logBurst(logger, rng, burstID)
				completed := completedBursts.Add(1)
				if completed%10 == 0 || completed == totalBursts {
					fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Printf("\n[Signal Received] Stopped early: %v\n", err)
	}
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate submissions/sec: %.2f\n", logsPerSec)
	}

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger (allowing up to 30s to drain)...")
	if err := logger.Shutdown(30 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	stats := logger.Stats()
	fmt.Printf("Processed: %d, rejected: %d, sink failures: %d, sink panics: %d\n",
		stats.Processed, stats.Rejected, stats.SinkFailures, stats.SinkPanics)
	fmt.Printf("Check log files in '%s'.\n", logsDir)
}
