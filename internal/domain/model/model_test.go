package model_test

import (
	"testing"

	"github.com/okian/lineup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayer_AvailableOn(t *testing.T) {
	Convey("Given players with and without availability", t, func() {
		always := model.Player{ID: "a", Name: "Always", Rating: 1500}
		limited := model.Player{ID: "b", Name: "Limited", Rating: 1600, Availability: []string{"2030-01-15"}}

		Convey("Then an empty availability list matches every date", func() {
			So(always.AvailableOn("2030-01-15"), ShouldBeTrue)
			So(always.AvailableOn("2030-02-01"), ShouldBeTrue)
		})

		Convey("Then a restricted player only matches listed dates", func() {
			So(limited.AvailableOn("2030-01-15"), ShouldBeTrue)
			So(limited.AvailableOn("2030-02-01"), ShouldBeFalse)
		})

		Convey("Then an empty date matches everyone", func() {
			So(limited.AvailableOn(""), ShouldBeTrue)
		})
	})
}

func TestNewLineupResult(t *testing.T) {
	Convey("Given a set of players", t, func() {
		players := []model.Player{
			{ID: "1", Name: "A", Rating: 1000},
			{ID: "2", Name: "B", Rating: 1400},
			{ID: "3", Name: "C", Rating: 1150},
		}

		Convey("When building a result", func() {
			r := model.NewLineupResult(players, "max_total")

			Convey("Then the statistics are derived from the ratings", func() {
				So(r.TotalRating, ShouldEqual, 3550)
				So(r.TotalRating, ShouldEqual, model.TeamRating(r.Players))
				So(r.AverageRating, ShouldAlmostEqual, 3550.0/3.0, 1e-9)
				So(r.Spread, ShouldEqual, 400)
				So(r.Size(), ShouldEqual, 3)
				So(r.Objective, ShouldEqual, "max_total")
			})

			Convey("And the player slice is copied", func() {
				players[0].Rating = 0
				So(r.Players[0].Rating, ShouldEqual, 1000)
			})
		})

		Convey("When building a result from no players", func() {
			r := model.NewLineupResult(nil, "min_spread")

			Convey("Then the stats are zero and players is empty, not nil", func() {
				So(r.TotalRating, ShouldEqual, 0)
				So(r.Spread, ShouldEqual, 0)
				So(r.Players, ShouldNotBeNil)
				So(r.Players, ShouldBeEmpty)
			})
		})
	})
}

func TestScenarioResult_Name(t *testing.T) {
	Convey("Given scenario results", t, func() {
		Convey("Then an unset name falls back to the id", func() {
			So(model.ScenarioResult{ID: 7}.Name(), ShouldEqual, "Scenario 7")
			So(model.ScenarioResult{ID: 7, ScenarioName: "  "}.Name(), ShouldEqual, "Scenario 7")
		})

		Convey("Then a set name is returned as-is", func() {
			So(model.ScenarioResult{ID: 7, ScenarioName: "No Bob"}.Name(), ShouldEqual, "No Bob")
		})

		Convey("Then placeholders are recognised", func() {
			placeholder := model.ScenarioResult{ID: 1, ScenarioName: "Base" + model.InsufficientSuffix}
			placeholder.Players = []model.Player{}
			So(placeholder.Insufficient(), ShouldBeTrue)
			So(placeholder.Failed(), ShouldBeFalse)

			failed := model.ScenarioResult{ID: 2, ScenarioName: "Base" + model.FailedSuffix, LineupResult: model.LineupResult{Players: []model.Player{}}}
			So(failed.Failed(), ShouldBeTrue)
			So(failed.Insufficient(), ShouldBeFalse)
		})
	})
}
