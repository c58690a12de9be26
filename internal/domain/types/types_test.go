package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func players(ids ...string) []model.Player {
	out := make([]model.Player, len(ids))
	for i, id := range ids {
		out[i] = model.Player{ID: id, Name: "P" + id, Rating: 1000 + i}
	}
	return out
}

func TestResolveObjective(t *testing.T) {
	Convey("Given objective names and weights", t, func() {
		Convey("Then a blank name means max_total", func() {
			obj, err := types.ResolveObjective("", nil, 0.3)
			So(err, ShouldBeNil)
			So(obj.Kind, ShouldEqual, optimizer.MaxTotal)
		})

		Convey("Then weighted uses the default weight unless one is given", func() {
			obj, err := types.ResolveObjective("weighted", nil, 0.4)
			So(err, ShouldBeNil)
			So(obj.WeightSpread, ShouldEqual, 0.4)

			w := 1.5
			obj, err = types.ResolveObjective("weighted", &w, 0.4)
			So(err, ShouldBeNil)
			So(obj.WeightSpread, ShouldEqual, 1.5)
		})

		Convey("Then a negative weight is rejected", func() {
			w := -1.0
			_, err := types.ResolveObjective("weighted", &w, 0.3)
			So(errors.Is(err, types.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("Then an unknown name is rejected", func() {
			_, err := types.ResolveObjective("bogus", nil, 0.3)
			So(errors.Is(err, optimizer.ErrUnknownObjective), ShouldBeTrue)
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given requests", t, func() {
		Convey("Then lineup requests need unique player ids", func() {
			So(types.LineupRequest{Players: players("1", "2")}.Validate(), ShouldBeNil)
			So(errors.Is(types.LineupRequest{}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.LineupRequest{Players: players("1", "1")}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.LineupRequest{Players: players("")}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("Then negative ratings are rejected on every player path", func() {
			neg := []model.Player{{ID: "a", Name: "A", Rating: -500}, {ID: "b", Name: "B", Rating: -300}}
			So(errors.Is(types.ValidatePlayers(neg), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.LineupRequest{Players: neg, Size: 2}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.ValidateBatch(model.BatchRequest{Players: neg, Scenarios: []model.Scenario{{Name: "neg"}}, Size: 2}), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.SensitivityRequest{Players: neg, Size: 2, Weights: []float64{0}}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)

			zero := []model.Player{{ID: "z", Name: "Z", Rating: 0}}
			So(types.ValidatePlayers(zero), ShouldBeNil)
		})

		Convey("Then performance requests need a roster", func() {
			So(types.PerformanceRequest{Players: players("1")}.Validate(), ShouldBeNil)
			So(errors.Is(types.PerformanceRequest{}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("Then job requests need a request id and scenarios", func() {
			batch := model.BatchRequest{Players: players("1"), Scenarios: []model.Scenario{{Name: "a"}}}
			So(types.JobRequest{RequestID: "r1", BatchRequest: batch}.Validate(), ShouldBeNil)
			So(errors.Is(types.JobRequest{BatchRequest: batch}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)

			batch.Scenarios = nil
			So(errors.Is(types.ValidateBatch(batch), types.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("Then predictions need two teams", func() {
			So(types.PredictRequest{TeamA: players("1"), TeamB: players("2")}.Validate(), ShouldBeNil)
			So(errors.Is(types.PredictRequest{TeamA: players("1")}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.PredictRequest{TeamA: players("1"), TeamB: players("2"), Iterations: -1}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(types.PredictRequest{TeamA: players("1"), TeamB: players("2"), Candidates: [][]model.Player{nil}}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("Then sweeps need weights", func() {
			So(types.SensitivityRequest{Players: players("1"), Weights: []float64{0.1}}.Validate(), ShouldBeNil)
			So(errors.Is(types.SensitivityRequest{Players: players("1")}.Validate(), types.ErrInvalidRequest), ShouldBeTrue)
		})
	})
}

func TestEntryJSON(t *testing.T) {
	Convey("Given a ranked entry", t, func() {
		e := types.Entry{Rank: 2, ScenarioResult: model.ScenarioResult{ID: 7, ScenarioName: "No Bob", Size: 2,
			LineupResult: model.LineupResult{TotalRating: 3000, Objective: "max_total", Players: []model.Player{}}}}

		Convey("When encoded", func() {
			raw, err := json.Marshal(e)
			So(err, ShouldBeNil)

			Convey("Then the result fields are flattened next to the rank", func() {
				var m map[string]any
				So(json.Unmarshal(raw, &m), ShouldBeNil)
				So(m["rank"], ShouldEqual, 2.0)
				So(m["id"], ShouldEqual, 7.0)
				So(m["scenario_name"], ShouldEqual, "No Bob")
				So(m["total_rating"], ShouldEqual, 3000.0)
			})
		})
	})

	Convey("Given a job request body", t, func() {
		body := `{"request_id":"r-1","players":[{"id":"1","name":"A","rating":1500}],"scenarios":[{"name":"s"}],"size":1,"objective":"weighted","weight_spread":0.5}`

		Convey("When decoded", func() {
			var req types.JobRequest
			So(json.Unmarshal([]byte(body), &req), ShouldBeNil)

			Convey("Then the embedded batch is populated", func() {
				So(req.RequestID, ShouldEqual, "r-1")
				So(req.Size, ShouldEqual, 1)
				So(*req.WeightSpread, ShouldEqual, 0.5)
				So(req.Scenarios[0].Name, ShouldEqual, "s")
			})
		})
	})
}
