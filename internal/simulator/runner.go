package simulator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/muster/pkg/logger"
)

// Run drives one simulated class against a running service: load a
// synthetic roster, enroll it, open today's session, submit check-ins
// concurrently, then verify the session statistics add up.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get().Named("simulator")
	stats := &Stats{StartTime: time.Now()}

	students := generateStudents(ctx, config, stats)
	c := newClient(config)

	if err := c.loadRoster(ctx, students); err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	studentIDs := make([]string, len(students))
	for i, s := range students {
		studentIDs[i] = s.PersonID
	}
	if err := c.setEnrollment(ctx, config.CourseID, studentIDs); err != nil {
		return fmt.Errorf("set enrollment: %w", err)
	}

	sess, err := c.openSession(ctx, config.CourseID)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	log.Info(ctx, "session opened",
		logger.String("sessionID", sess.ID),
		logger.Int("expected", sess.ExpectedCount),
	)

	attending := int(float64(len(students)) * config.CheckInRatio)
	submitCheckIns(ctx, config, c, studentIDs[:attending], sess.ID, stats)

	if err := verify(ctx, c, sess.ID, len(students), stats); err != nil {
		return err
	}

	if err := c.closeSession(ctx, sess.ID); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "simulation finished",
		logger.Int("students", stats.StudentsGenerated),
		logger.Int("submitted", stats.CheckInsSubmitted),
		logger.Int("successful", stats.CheckInsSuccessful),
		logger.Int("duplicate", stats.CheckInsDuplicate),
		logger.Int("failed", stats.CheckInsFailed),
		logger.Duration("duration", stats.Duration),
	)
	return nil
}

// submitCheckIns fans student check-ins over a worker pool. Every
// student is submitted twice so the duplicate path gets exercised too.
func submitCheckIns(ctx context.Context, config *Config, c *client, studentIDs []string, sessionID string, stats *Stats) {
	var submitted, successful, duplicate, failed atomic.Int64

	jobs := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				submitted.Add(1)
				dup, err := c.checkIn(ctx, id, sessionID)
				switch {
				case err != nil:
					failed.Add(1)
					if config.Verbose {
						logger.Get().Warn(ctx, "check-in failed", logger.String("studentID", id), logger.Error(err))
					}
				case dup:
					duplicate.Add(1)
				default:
					successful.Add(1)
				}
			}
		}()
	}

	for _, id := range studentIDs {
		jobs <- id
	}
	for _, id := range studentIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	stats.CheckInsSubmitted = int(submitted.Load())
	stats.CheckInsSuccessful = int(successful.Load())
	stats.CheckInsDuplicate = int(duplicate.Load())
	stats.CheckInsFailed = int(failed.Load())
}

// verify cross-checks the server's session statistics against what the
// run submitted.
func verify(ctx context.Context, c *client, sessionID string, enrolled int, stats *Stats) error {
	got, err := c.sessionStats(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch session stats: %w", err)
	}

	if got.ExpectedCount != enrolled {
		return fmt.Errorf("expected count mismatch: server %d, enrolled %d", got.ExpectedCount, enrolled)
	}
	if got.PresentCount != stats.CheckInsSuccessful {
		return fmt.Errorf("present count mismatch: server %d, successful check-ins %d", got.PresentCount, stats.CheckInsSuccessful)
	}

	logger.Get().Info(ctx, "verification passed",
		logger.Int("expected", got.ExpectedCount),
		logger.Int("present", got.PresentCount),
		logger.Int("normal", got.NormalCount),
		logger.Int("late", got.LateCount),
	)
	return nil
}
