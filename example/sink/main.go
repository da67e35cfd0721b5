// FILE: main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sink"
)

const logDirectory = "./temp_logs"

// upperSink is a custom destination that shouts every record to stdout
type upperSink struct {
	id        string
	formatter formatter.Formatter
}

func (s *upperSink) Identifier() string             { return s.id }
func (s *upperSink) SetIdentifier(id string)        { s.id = id }
func (s *upperSink) Formatter() formatter.Formatter { return s.formatter }

func (s *upperSink) Persist(rec record.Record, level record.Level) error {
	_, err := fmt.Println("  custom>", strings.ToUpper(s.formatter.Format(rec, level)))
	return err
}

// main orchestrates the different test scenarios.
func main() {
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Walkthrough ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	fmt.Println("--- SCENARIO 1: Config-owned sinks in isolation (new logger per test) ---")
	testFileOnly()
	testStdoutOnly()
	testStderrOnly()
	testNoOutput()

	fmt.Println("\n--- SCENARIO 2: Reconfiguration on a single logger instance ---")
	testReconfigurationTransitions()

	fmt.Println("\n--- SCENARIO 3: Sinks added and removed directly ---")
	testDirectSinks()

	fmt.Println("\n--- Sink Walkthrough Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

// testFileOnly writes only to the day file.
func testFileOnly() {
	logger := daylog.NewLogger()
	runTestPhase(logger, "1.1: File-Only",
		"enable_file=true",
		"directory="+logDirectory,
		"level=debug",
	)
	shutdownLogger(logger, "1.1: File-Only")
}

// testStdoutOnly writes only to the standard output.
func testStdoutOnly() {
	logger := daylog.NewLogger()
	runTestPhase(logger, "1.2: Stdout-Only",
		"enable_console=true",
		"level=debug",
	)
	shutdownLogger(logger, "1.2: Stdout-Only")
}

// testStderrOnly writes only to the standard error stream.
func testStderrOnly() {
	fmt.Fprintln(os.Stderr, "\n---")
	logger := daylog.NewLogger()
	runTestPhase(logger, "1.3: Stderr-Only",
		"enable_console=true",
		"console_target=stderr",
		"level=debug",
	)
	fmt.Fprintln(os.Stderr, "---")
	shutdownLogger(logger, "1.3: Stderr-Only")
}

// testNoOutput has no sinks at all, so records are discarded.
func testNoOutput() {
	logger := daylog.NewLogger()
	runTestPhase(logger, "1.4: No-Output (logs should be dropped)",
		"level=debug",
	)
	shutdownLogger(logger, "1.4: No-Output")
}

// testReconfigurationTransitions moves one logger between sink sets.
func testReconfigurationTransitions() {
	logger := daylog.NewLogger()

	runTestPhase(logger, "2.1: Reconfig - Initial (Dual File+Stdout)",
		"enable_file=true",
		"directory="+logDirectory,
		"enable_console=true",
		"level=debug",
	)

	runTestPhase(logger, "2.2: Reconfig - Transition to Stdout-Only",
		"enable_file=false",
	)

	runTestPhase(logger, "2.3: Reconfig - Transition back to Dual (File+Stdout)",
		"enable_file=true",
		"level_marker=symbol",
	)

	fmt.Println("\n[Phase 2.4: Reconfig - Testing log levels on final state]")
	logger.Verbosef("final-state: %s", "This verbose message is filtered.")
	logger.Debugf("final-state: %s", "This is a debug message.")
	logger.Infof("final-state: %s", "This is an info message.")
	logger.Warningf("final-state: %s", "This is a warning message.")
	logger.Errorf("final-state: %s", "This is an error message.")
	_ = logger.Flush(time.Second)

	shutdownLogger(logger, "2: Reconfiguration")
}

// testDirectSinks registers sinks by hand, looks one up and removes it again.
func testDirectSinks() {
	logger := daylog.NewLogger()
	logger.SetLogThreshold(daylog.LevelVerbose)

	custom := &upperSink{id: "shout", formatter: formatter.NewConsole()}
	logger.AddSink(custom)
	fileID := logger.AddFileSink(logDirectory, 3, sink.WithIdentifier("direct-file"))

	logger.Info(func() string { return "both sinks see this" })
	if s, ok := logger.FindSink("shout"); ok {
		fmt.Printf("  found sink %q\n", s.Identifier())
	}

	logger.RemoveSink("shout")
	logger.Info(func() string { return "only the file sees this" })
	_ = logger.Flush(time.Second)

	fmt.Printf("  file sink %q holds: %v\n", fileID, logger.AllLogFiles())
	shutdownLogger(logger, "3: Direct sinks")
}

// runTestPhase applies overrides and logs a start and end marker.
func runTestPhase(logger *daylog.Logger, phaseName string, overrides ...string) {
	fmt.Printf("\n[Phase %s]\n", phaseName)
	fmt.Println("  Config:", overrides)

	if err := logger.ApplyConfigString(overrides...); err != nil {
		fmt.Printf("  ERROR: Failed to initialize/reconfigure logger: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("start_phase %s", phaseName)
	logger.Infof("end_phase %s", phaseName)
	if err := logger.Flush(time.Second); err != nil {
		fmt.Printf("  WARNING: Flush failed: %v\n", err)
	}
}

// shutdownLogger gracefully shuts down the logger instance.
func shutdownLogger(l *daylog.Logger, phaseName string) {
	if err := l.Shutdown(500 * time.Millisecond); err != nil {
		fmt.Printf("  WARNING: Shutdown error in phase '%s': %v\n", phaseName, err)
	}
}
