package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/daylog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = "verbose"
  enable_file = true
  directory = "./simple_logs"
  max_files = 5
  enable_console = true
  console_target = "stdout"
  format = "txt"
  level_marker = "symbol"
  # Other settings use defaults
`

type payment struct {
	ID     int
	Amount float64
	Tags   []string
}

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := daylog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = daylog.DefaultConfig()
	}

	// --- Initialize Logger ---
	logger := daylog.NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// Save the merged configuration (defaults + file values) back
	if err := logger.GetConfig().Save(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", configFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", configFile)
	}

	// --- Logging ---
	logger.Verbose(func() string { return "Entering main" })
	logger.Debug(func() string { return "This is a debug message." }, map[string]int{"user_id": 123})
	logger.Info(func() string { return "Application starting..." })
	logger.Warningf("Potential issue detected, threshold %.2f", 0.95)
	logger.Error(func() string { return "An error occurred!" }, fmt.Errorf("code %d", 500))
	logger.Info(func() string { return "Payment accepted" }, payment{ID: 7, Amount: 19.99, Tags: []string{"card", "eu"}})

	req, err := http.NewRequest(http.MethodPost, "https://example.com/api/orders", bytes.NewBufferString(`{"item":42}`))
	if err == nil {
		req.Header.Set("Content-Type", "application/json")
		logger.DebugRequest(req, "Sending order")
	}

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Infof("Goroutine %d started", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.Infof("Goroutine %d finished", id)
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	for _, file := range logger.AllLogFiles() {
		fmt.Printf("Log file: %s\n", file)
	}

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in '%s' and the saved config '%s'.\n", cfg.Directory, configFile)
}
