package simulator

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/muster/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestGenerateStudents(t *testing.T) {
	Convey("Given a simulation config", t, func() {
		config := &Config{Students: 25, DescriptorDim: 16}
		stats := &Stats{}

		Convey("When students are generated", func() {
			students := generateStudents(context.Background(), config, stats)

			Convey("Then each has a unique ID and a full descriptor", func() {
				So(students, ShouldHaveLength, 25)
				So(stats.StudentsGenerated, ShouldEqual, 25)

				seen := make(map[string]bool, len(students))
				for _, s := range students {
					So(seen[s.PersonID], ShouldBeFalse)
					seen[s.PersonID] = true
					So(s.Descriptor, ShouldHaveLength, 16)
					So(s.PersonName, ShouldNotBeEmpty)
				}
			})
		})
	})
}
