package liveness_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	liveness "github.com/okian/muster/internal/domain/liveness"
	. "github.com/smartystreets/goconvey/convey"
)

// blockingChecker holds the check open until released.
type blockingChecker struct {
	entered chan struct{}
	release chan struct{}
	result  bool
	err     error
}

func (c *blockingChecker) Check(ctx context.Context, _ liveness.Candidate) (bool, error) {
	close(c.entered)
	select {
	case <-c.release:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	return c.result, c.err
}

type staticChecker struct {
	result bool
	err    error
	calls  int
	mu     sync.Mutex
}

func (c *staticChecker) Check(context.Context, liveness.Candidate) (bool, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.result, c.err
}

func TestGate(t *testing.T) {
	Convey("Given a liveness gate", t, func() {
		ctx := context.Background()
		cand := liveness.Candidate{PersonID: "s-1", PersonName: "Ada"}

		Convey("When the subject passes verification", func() {
			gate := liveness.NewGate(&staticChecker{result: true})
			verified, err := gate.Offer(ctx, cand)

			Convey("Then the candidate is verified and the gate frees up", func() {
				So(err, ShouldBeNil)
				So(verified, ShouldBeTrue)
				So(gate.Busy(), ShouldBeFalse)
			})
		})

		Convey("When the subject fails verification", func() {
			checker := &staticChecker{result: false}
			gate := liveness.NewGate(checker)
			verified, err := gate.Offer(ctx, cand)

			Convey("Then the failure is terminal but the gate is reusable", func() {
				So(err, ShouldBeNil)
				So(verified, ShouldBeFalse)
				So(gate.Busy(), ShouldBeFalse)

				// The same person may be re-offered on a later frame.
				_, err = gate.Offer(ctx, cand)
				So(err, ShouldBeNil)
				So(checker.calls, ShouldEqual, 2)
			})
		})

		Convey("When the checker errors", func() {
			gate := liveness.NewGate(&staticChecker{err: errors.New("camera gone")})
			verified, err := gate.Offer(ctx, cand)

			Convey("Then the error is wrapped and the gate frees up", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "s-1")
				So(verified, ShouldBeFalse)
				So(gate.Busy(), ShouldBeFalse)
			})
		})

		Convey("When a check is already in flight", func() {
			checker := &blockingChecker{
				entered: make(chan struct{}),
				release: make(chan struct{}),
				result:  true,
			}
			gate := liveness.NewGate(checker)

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = gate.Offer(ctx, cand)
			}()
			<-checker.entered

			Convey("Then a second candidate is rejected, not queued", func() {
				So(gate.Busy(), ShouldBeTrue)
				_, err := gate.Offer(ctx, liveness.Candidate{PersonID: "s-2"})
				So(errors.Is(err, liveness.ErrCheckInFlight), ShouldBeTrue)

				close(checker.release)
				<-done
				So(gate.Busy(), ShouldBeFalse)
			})
		})
	})
}
