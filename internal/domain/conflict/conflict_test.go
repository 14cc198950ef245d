package conflict_test

import (
	"testing"
	"time"

	"github.com/okian/rarepour/internal/domain/conflict"
	"github.com/okian/rarepour/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsAvailable(t *testing.T) {
	Convey("Given a booked interval from 18:00 to 19:00", t, func() {
		start := time.Date(2025, 4, 25, 18, 0, 0, 0, time.UTC)
		booked := []model.Interval{{Start: start, End: start.Add(time.Hour)}}
		open := func(at time.Time) model.Opening {
			return model.Opening{Name: "Bollinger R.D. 2007", At: at, Stand: "12"}
		}

		Convey("When the opening is exactly at the start", func() {
			So(conflict.IsAvailable(open(start), booked, nil), ShouldBeFalse)
		})

		Convey("When the opening is inside the interval", func() {
			So(conflict.IsAvailable(open(start.Add(30*time.Minute)), booked, nil), ShouldBeFalse)
		})

		Convey("When the opening is exactly at the end", func() {
			So(conflict.IsAvailable(open(start.Add(time.Hour)), booked, nil), ShouldBeTrue)
		})

		Convey("When the opening is before the interval", func() {
			So(conflict.IsAvailable(open(start.Add(-time.Minute)), booked, nil), ShouldBeTrue)
		})

		Convey("When the time is free but the wine is excluded", func() {
			excluded := conflict.NewExclusionSet([]string{"BOLLINGER R.D. 2007 Magnum"}, nil, false)
			So(conflict.IsAvailable(open(start.Add(2*time.Hour)), booked, excluded), ShouldBeFalse)
		})
	})
}

func TestExclusionSet(t *testing.T) {
	Convey("Given explicit and tasted wines", t, func() {
		explicit := []string{"Krug 1996", ""}
		tasted := []string{"Salon Le Mesnil 2012 *"}

		Convey("When tasted wines are not ignored", func() {
			set := conflict.NewExclusionSet(explicit, tasted, false)

			Convey("Then both are excluded", func() {
				So(set.Contains("krug 1996"), ShouldBeTrue)
				So(set.Contains("Salon Le Mesnil 2012"), ShouldBeTrue)
				So(set.Names(), ShouldResemble, []string{"krug 1996", "salon le mesnil 2012"})
			})
		})

		Convey("When tasted wines are ignored", func() {
			set := conflict.NewExclusionSet(explicit, tasted, true)

			Convey("Then explicit exclusions still apply", func() {
				So(set.Contains("Krug 1996"), ShouldBeTrue)
				So(set.Contains("Salon Le Mesnil 2012"), ShouldBeFalse)
			})
		})

		Convey("When the set is empty", func() {
			var set conflict.ExclusionSet
			So(set.Contains("anything"), ShouldBeFalse)
		})
	})
}
