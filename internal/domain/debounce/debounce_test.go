package debounce_test

import (
	"context"
	"sync"
	"testing"
	"time"

	debounce "github.com/okian/muster/internal/domain/debounce"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDebouncer(t *testing.T) {
	Convey("Given a debouncer with a 30s cooldown", t, func() {
		d := debounce.NewInMemoryDebouncer()
		now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
		ctx := context.Background()

		Convey("When an attempt begins for a new person", func() {
			allowed := d.TryBegin(ctx, "s-1", now)

			Convey("Then it should be allowed and marked in flight", func() {
				So(allowed, ShouldBeTrue)
				So(d.Pending(), ShouldEqual, 1)
			})

			Convey("And a second attempt while in flight is suppressed", func() {
				So(d.TryBegin(ctx, "s-1", now.Add(time.Second)), ShouldBeFalse)
			})

			Convey("And a different person is unaffected", func() {
				So(d.TryBegin(ctx, "s-2", now), ShouldBeTrue)
				So(d.Pending(), ShouldEqual, 2)
			})
		})

		Convey("When an attempt completes inside the cooldown window", func() {
			So(d.TryBegin(ctx, "s-1", now), ShouldBeTrue)
			d.Complete(ctx, "s-1")

			Convey("Then a retry before cooldown expiry is still suppressed", func() {
				So(d.Pending(), ShouldEqual, 0)
				So(d.TryBegin(ctx, "s-1", now.Add(29*time.Second)), ShouldBeFalse)
			})

			Convey("And a retry after cooldown expiry is allowed", func() {
				So(d.TryBegin(ctx, "s-1", now.Add(30*time.Second)), ShouldBeTrue)
			})
		})

		Convey("When the attempt fails downstream", func() {
			So(d.TryBegin(ctx, "s-1", now), ShouldBeTrue)
			// Complete is called regardless of outcome; the cooldown
			// stamp survives so a flaky network is not hammered.
			d.Complete(ctx, "s-1")

			Convey("Then the cooldown still applies", func() {
				So(d.TryBegin(ctx, "s-1", now.Add(5*time.Second)), ShouldBeFalse)
			})
		})

		Convey("When completing a person that was never begun", func() {
			d.Complete(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(d.Pending(), ShouldEqual, 0)
			})
		})
	})
}

func TestDebouncerCustomCooldown(t *testing.T) {
	Convey("Given a debouncer with a short cooldown", t, func() {
		d := debounce.NewInMemoryDebouncer(debounce.WithCooldown(time.Second))
		now := time.Now()
		ctx := context.Background()

		Convey("When an attempt completes", func() {
			So(d.TryBegin(ctx, "s-1", now), ShouldBeTrue)
			d.Complete(ctx, "s-1")

			Convey("Then the configured window is honored", func() {
				So(d.Cooldown(), ShouldEqual, time.Second)
				So(d.TryBegin(ctx, "s-1", now.Add(999*time.Millisecond)), ShouldBeFalse)
				So(d.TryBegin(ctx, "s-1", now.Add(time.Second)), ShouldBeTrue)
			})
		})
	})
}

func TestDebouncerConcurrentTryBegin(t *testing.T) {
	Convey("Given many goroutines racing on the same person", t, func() {
		d := debounce.NewInMemoryDebouncer()
		now := time.Now()
		ctx := context.Background()

		const attempts = 64
		var wg sync.WaitGroup
		results := make(chan bool, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- d.TryBegin(ctx, "s-1", now)
			}()
		}
		wg.Wait()
		close(results)

		Convey("Then exactly one attempt wins", func() {
			wins := 0
			for ok := range results {
				if ok {
					wins++
				}
			}
			So(wins, ShouldEqual, 1)
			So(d.Pending(), ShouldEqual, 1)
		})
	})
}
