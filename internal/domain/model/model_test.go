package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/muster/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClockTime(t *testing.T) {
	Convey("Given clock time parsing", t, func() {
		Convey("When parsing a valid value", func() {
			ct, err := model.ParseClockTime("09:05")

			Convey("Then it should parse correctly", func() {
				So(err, ShouldBeNil)
				So(ct.Hour, ShouldEqual, 9)
				So(ct.Minute, ShouldEqual, 5)
				So(ct.String(), ShouldEqual, "09:05")
				So(ct.Minutes(), ShouldEqual, 545)
			})
		})

		Convey("When parsing values with surrounding whitespace", func() {
			ct, err := model.ParseClockTime(" 23:59 ")

			Convey("Then it should still parse", func() {
				So(err, ShouldBeNil)
				So(ct.String(), ShouldEqual, "23:59")
			})
		})

		Convey("When parsing malformed values", func() {
			for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12-30"} {
				_, err := model.ParseClockTime(bad)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid clock time")
			}
		})

		Convey("When anchoring to a date", func() {
			ct := model.ClockTime{Hour: 10, Minute: 30}
			date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
			anchored := ct.On(date)

			Convey("Then the instant should be on that date", func() {
				So(anchored.Year(), ShouldEqual, 2024)
				So(anchored.Hour(), ShouldEqual, 10)
				So(anchored.Minute(), ShouldEqual, 30)
				So(anchored.Location(), ShouldEqual, time.UTC)
			})
		})

		Convey("When round-tripping through JSON", func() {
			ct := model.ClockTime{Hour: 8, Minute: 0}
			data, err := json.Marshal(ct)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `"08:00"`)

			var back model.ClockTime
			So(json.Unmarshal(data, &back), ShouldBeNil)
			So(back, ShouldResemble, ct)
		})
	})
}

func TestScheduleSlot(t *testing.T) {
	Convey("Given a schedule slot", t, func() {
		Convey("When the window is well-formed", func() {
			slot := model.ScheduleSlot{
				DayOfWeek: time.Monday,
				StartTime: model.ClockTime{Hour: 9},
				EndTime:   model.ClockTime{Hour: 12},
				Room:      "A-101",
			}

			Convey("Then it should be valid", func() {
				So(slot.Valid(), ShouldBeTrue)
			})
		})

		Convey("When start does not precede end", func() {
			slot := model.ScheduleSlot{
				DayOfWeek: time.Monday,
				StartTime: model.ClockTime{Hour: 12},
				EndTime:   model.ClockTime{Hour: 9},
			}

			Convey("Then it should be invalid", func() {
				So(slot.Valid(), ShouldBeFalse)
			})
		})

		Convey("When start equals end", func() {
			slot := model.ScheduleSlot{
				DayOfWeek: time.Friday,
				StartTime: model.ClockTime{Hour: 9},
				EndTime:   model.ClockTime{Hour: 9},
			}

			Convey("Then it should be invalid", func() {
				So(slot.Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestSessionDefaults(t *testing.T) {
	Convey("Given a zero session", t, func() {
		var s model.Session

		Convey("Then closed-at should be zero until closed", func() {
			So(s.ClosedAt.IsZero(), ShouldBeTrue)
			So(s.Status, ShouldEqual, model.SessionStatus(""))
		})
	})
}
