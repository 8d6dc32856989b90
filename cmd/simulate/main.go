package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/muster/internal/simulator"
)

// Default configuration constants.
const (
	defaultStudents      = 30
	defaultDescriptorDim = 128
	defaultCheckInRatio  = 0.8
	defaultWorkers       = 4
	defaultTimeout       = 10 * time.Second
	defaultRunTimeout    = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		courseID = flag.String("course", "sim-course", "Course ID to enroll and open")
		students = flag.Int("students", defaultStudents, "Number of synthetic students")
		dim      = flag.Int("dim", defaultDescriptorDim, "Descriptor dimension; must match the server's descriptor_dim")
		ratio    = flag.Float64("ratio", defaultCheckInRatio, "Fraction of students that check in")
		workers  = flag.Int("workers", defaultWorkers, "Number of concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for run output (default: simulation_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulator.ShowHelp()
		return
	}

	if err := simulator.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulator.Config{
		BaseURL:       *baseURL,
		CourseID:      *courseID,
		Students:      *students,
		DescriptorDim: *dim,
		CheckInRatio:  *ratio,
		Workers:       *workers,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	if err := simulator.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
