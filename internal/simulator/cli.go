package simulator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/muster/pkg/logger"
)

// logFilePermission restricts run logs to the owner.
const logFilePermission = 0600

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simulation_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Muster Classroom Simulator
==========================

Drives a running attendance service with a synthetic class: loads a
roster of generated students, opens today's session, submits concurrent
check-ins, and verifies the session statistics.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -course string
        Course ID to enroll and open (default "sim-course")
  -students int
        Number of synthetic students (default 30)
  -dim int
        Descriptor dimension; must match the server's descriptor_dim (default 128)
  -ratio float
        Fraction of students that check in (default 0.8)
  -workers int
        Number of concurrent submitters (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Log file for run output (default: simulation_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show help
`)
}
