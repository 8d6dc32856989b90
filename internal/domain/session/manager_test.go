package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/domain/model"
	session "github.com/okian/muster/internal/domain/session"
	"github.com/okian/muster/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var (
	monday     = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	mondaySlot = model.ScheduleSlot{
		DayOfWeek: time.Monday,
		StartTime: model.ClockTime{Hour: 9},
		EndTime:   model.ClockTime{Hour: 12},
		Room:      "A-101",
	}
)

func managerAt(store *repository.MemStore, now time.Time) *session.Manager {
	return session.NewManager(store, session.WithClock(func() time.Time { return now }))
}

func TestCanOpen(t *testing.T) {
	Convey("Given a lifecycle manager", t, func() {
		store := repository.NewMemStore()
		m := managerAt(store, monday.Add(10*time.Hour))

		Convey("When now is within the scheduled window", func() {
			err := m.CanOpen(mondaySlot, monday, monday.Add(10*time.Hour), nil)

			Convey("Then opening is allowed", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When now is one second before the window", func() {
			err := m.CanOpen(mondaySlot, monday, monday.Add(9*time.Hour).Add(-time.Second), nil)

			Convey("Then opening is too early", func() {
				So(errors.Is(err, session.ErrTooEarly), ShouldBeTrue)
			})
		})

		Convey("When now is one second past the window", func() {
			err := m.CanOpen(mondaySlot, monday, monday.Add(12*time.Hour).Add(time.Second), nil)

			Convey("Then the slot has expired", func() {
				So(errors.Is(err, session.ErrExpired), ShouldBeTrue)
			})
		})

		Convey("When now is exactly at the boundaries", func() {
			So(m.CanOpen(mondaySlot, monday, monday.Add(9*time.Hour), nil), ShouldBeNil)
			So(m.CanOpen(mondaySlot, monday, monday.Add(12*time.Hour), nil), ShouldBeNil)
		})

		Convey("When an active session already occupies the slot", func() {
			existing := []model.Session{{
				ID:        "s-open",
				DayOfWeek: time.Monday,
				StartTime: mondaySlot.StartTime,
				Status:    model.SessionActive,
			}}
			err := m.CanOpen(mondaySlot, monday, monday.Add(10*time.Hour), existing)

			Convey("Then the slot is reported active", func() {
				So(errors.Is(err, session.ErrSlotAlreadyActive), ShouldBeTrue)
			})
		})

		Convey("When only a closed session occupies the slot", func() {
			existing := []model.Session{{
				ID:        "s-closed",
				DayOfWeek: time.Monday,
				StartTime: mondaySlot.StartTime,
				Status:    model.SessionClosed,
			}}
			err := m.CanOpen(mondaySlot, monday, monday.Add(10*time.Hour), existing)

			Convey("Then reopening is permitted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When the slot is malformed", func() {
			bad := model.ScheduleSlot{
				DayOfWeek: time.Monday,
				StartTime: model.ClockTime{Hour: 12},
				EndTime:   model.ClockTime{Hour: 9},
			}
			err := m.CanOpen(bad, monday, monday.Add(10*time.Hour), nil)

			Convey("Then the request is rejected as invalid, not fatal", func() {
				So(errors.Is(err, session.ErrInvalidSlot), ShouldBeTrue)
			})
		})

		Convey("When the date's weekday does not match the slot", func() {
			tuesday := monday.AddDate(0, 0, 1)
			err := m.CanOpen(mondaySlot, tuesday, tuesday.Add(10*time.Hour), nil)

			Convey("Then the request is rejected as invalid", func() {
				So(errors.Is(err, session.ErrInvalidSlot), ShouldBeTrue)
			})
		})
	})
}

func TestOpenCloseReopen(t *testing.T) {
	Convey("Given a course with enrollment and a Monday 09:00-12:00 slot", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		store.SetEnrollment(ctx, "c-1", []string{"s-1", "s-2", "s-3"})

		req := session.OpenRequest{CourseID: "c-1", Date: monday, Slot: mondaySlot}

		Convey("When opening at 10:00", func() {
			m := managerAt(store, monday.Add(10*time.Hour))
			sess, err := m.Open(ctx, req)

			Convey("Then a fresh active session exists", func() {
				So(err, ShouldBeNil)
				So(sess.ID, ShouldNotBeEmpty)
				So(sess.Status, ShouldEqual, model.SessionActive)
				So(sess.ExpectedCount, ShouldEqual, 3)
				So(sess.Room, ShouldEqual, "A-101")
			})

			Convey("And opening the same slot again at 10:05 is rejected", func() {
				So(err, ShouldBeNil)
				m2 := managerAt(store, monday.Add(10*time.Hour).Add(5*time.Minute))
				_, err2 := m2.Open(ctx, req)
				So(errors.Is(err2, session.ErrSlotAlreadyActive), ShouldBeTrue)
			})

			Convey("And after closing, reopening at 10:10 creates a new session", func() {
				So(err, ShouldBeNil)
				closed, cerr := m.Close(ctx, sess.ID)
				So(cerr, ShouldBeNil)
				So(closed.Status, ShouldEqual, model.SessionClosed)
				So(closed.ClosedAt.IsZero(), ShouldBeFalse)

				m3 := managerAt(store, monday.Add(10*time.Hour).Add(10*time.Minute))
				reopened, rerr := m3.Open(ctx, req)
				So(rerr, ShouldBeNil)
				So(reopened.Status, ShouldEqual, model.SessionActive)
				So(reopened.ID, ShouldNotEqual, sess.ID)
			})
		})

		Convey("When opening with a room override", func() {
			m := managerAt(store, monday.Add(10*time.Hour))
			override := req
			override.Room = "B-202"
			sess, err := m.Open(ctx, override)

			Convey("Then the session records the override", func() {
				So(err, ShouldBeNil)
				So(sess.Room, ShouldEqual, "B-202")
			})
		})

		Convey("When closing a session twice", func() {
			m := managerAt(store, monday.Add(10*time.Hour))
			sess, err := m.Open(ctx, req)
			So(err, ShouldBeNil)
			_, err = m.Close(ctx, sess.ID)
			So(err, ShouldBeNil)
			_, err = m.Close(ctx, sess.ID)

			Convey("Then the second close reports not active", func() {
				So(errors.Is(err, session.ErrNotActive), ShouldBeTrue)
			})
		})

		Convey("When closing a nonexistent session", func() {
			m := managerAt(store, monday.Add(10*time.Hour))
			_, err := m.Close(ctx, "ghost")

			Convey("Then it reports not active", func() {
				So(errors.Is(err, session.ErrNotActive), ShouldBeTrue)
			})
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an active session", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		m := managerAt(store, monday.Add(10*time.Hour))
		sess, err := m.Open(ctx, session.OpenRequest{CourseID: "c-1", Date: monday, Slot: mondaySlot})
		So(err, ShouldBeNil)

		Convey("When deleting while still active", func() {
			err := m.Delete(ctx, sess.ID)

			Convey("Then deletion is rejected", func() {
				So(errors.Is(err, session.ErrSessionActive), ShouldBeTrue)
			})
		})

		Convey("When deleting after close", func() {
			_, err := m.Close(ctx, sess.ID)
			So(err, ShouldBeNil)

			Convey("Then deletion succeeds", func() {
				So(m.Delete(ctx, sess.ID), ShouldBeNil)
				_, err := store.Session(ctx, sess.ID)
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentOpen(t *testing.T) {
	Convey("Given two admins opening the same slot simultaneously", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		m := managerAt(store, monday.Add(10*time.Hour))
		req := session.OpenRequest{CourseID: "c-1", Date: monday, Slot: mondaySlot}

		const callers = 8
		var wg sync.WaitGroup
		errs := make(chan error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.Open(ctx, req)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		Convey("Then exactly one open succeeds", func() {
			wins, conflicts := 0, 0
			for err := range errs {
				if err == nil {
					wins++
				} else if errors.Is(err, session.ErrSlotAlreadyActive) {
					conflicts++
				}
			}
			So(wins, ShouldEqual, 1)
			So(conflicts, ShouldEqual, callers-1)

			active, err := store.ActiveSessions(ctx)
			So(err, ShouldBeNil)
			So(len(active), ShouldEqual, 1)
		})
	})
}
