package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/lineup/internal/adapters/http/api"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/performance"
	"github.com/okian/lineup/internal/domain/sensitivity"
	"github.com/okian/lineup/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	optimizeErr error
	submitErr   error
	duplicate   bool
	topNErr     error

	lastLineup types.LineupRequest
	lastJob    types.JobRequest
	lastLimit  int
	entries    []types.Entry
}

func (m *mockDependencies) Optimize(_ context.Context, req types.LineupRequest) (model.LineupResult, error) {
	m.lastLineup = req
	if err := req.Validate(); err != nil {
		return model.LineupResult{}, err
	}
	if m.optimizeErr != nil {
		return model.LineupResult{}, m.optimizeErr
	}
	return model.NewLineupResult(req.Players[:req.Size], "max_total"), nil
}

func (m *mockDependencies) RunScenarios(_ context.Context, req model.BatchRequest) ([]model.ScenarioResult, error) {
	if len(req.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: scenarios must not be empty", types.ErrInvalidRequest)
	}
	out := make([]model.ScenarioResult, len(req.Scenarios))
	for i, sc := range req.Scenarios {
		out[i] = model.ScenarioResult{ID: i + 1, ScenarioName: sc.Name, Size: req.Size}
	}
	return out, nil
}

func (m *mockDependencies) Submit(_ context.Context, req types.JobRequest) (types.JobAccepted, error) {
	m.lastJob = req
	if m.submitErr != nil {
		return types.JobAccepted{}, m.submitErr
	}
	return types.JobAccepted{JobID: "job-1", Status: model.JobQueued, Duplicate: m.duplicate}, nil
}

func (m *mockDependencies) Job(_ context.Context, id string) (model.JobState, error) {
	if id != "job-1" {
		return model.JobState{}, fmt.Errorf("%w: job %s", types.ErrNotFound, id)
	}
	return model.JobState{ID: id, Status: model.JobDone, ResultIDs: []int{1, 2}}, nil
}

func (m *mockDependencies) TopN(_ context.Context, n int) ([]types.Entry, error) {
	m.lastLimit = n
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	return m.entries[:min(n, len(m.entries))], nil
}

func (m *mockDependencies) Result(_ context.Context, id int) (types.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("%w: %d", types.ErrNotFound, id)
}

func (m *mockDependencies) Report(context.Context) string {
	return "# Optimization Report\n"
}

func (m *mockDependencies) Predict(_ context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	if err := req.Validate(); err != nil {
		return types.PredictResponse{}, err
	}
	return types.PredictResponse{WinProbability: 0.5}, nil
}

func (m *mockDependencies) Sensitivity(_ context.Context, req types.SensitivityRequest) (types.SensitivityResponse, error) {
	points := make([]sensitivity.Point, len(req.Weights))
	for i, w := range req.Weights {
		points[i] = sensitivity.Point{Weight: w}
	}
	return types.SensitivityResponse{Points: points}, nil
}

func (m *mockDependencies) Performance(_ context.Context, req types.PerformanceRequest) (types.PerformanceResponse, error) {
	if err := req.Validate(); err != nil {
		return types.PerformanceResponse{}, err
	}
	return types.PerformanceResponse{
		Strength: performance.TeamStrength(req.Players),
		Trends:   performance.Trends(req.Players),
	}, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true}}, 5)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

const players = `[{"id":"1","name":"A","rating":1500},{"id":"2","name":"B","rating":1400}]`

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then health serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats are JSON", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the report is markdown", func() {
			w := do(mux, http.MethodGet, "/report", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/markdown")
			So(w.Body.String(), ShouldStartWith, "# Optimization Report")
		})

		Convey("Then wrong methods are rejected", func() {
			w := do(mux, http.MethodGet, "/lineup", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)

			w = do(mux, http.MethodPost, "/report", "{}")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestLineupHandler(t *testing.T) {
	Convey("Given the lineup endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a valid request is posted", func() {
			w := do(mux, http.MethodPost, "/lineup", `{"players":`+players+`,"size":1,"objective":"weighted","weight_spread":0.5}`)

			Convey("Then the lineup is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res model.LineupResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.TotalRating, ShouldEqual, 1500)
				So(deps.lastLineup.Objective, ShouldEqual, "weighted")
				So(*deps.lastLineup.WeightSpread, ShouldEqual, 0.5)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/lineup", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/lineup", `{"players":`+players+`,"size":1,"color":"red"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is too large", func() {
			w := do(mux, http.MethodPost, "/lineup", `{"objective":"`+strings.Repeat("x", 1<<20)+`"}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("When the optimizer rejects the request", func() {
			for _, err := range []error{optimizer.ErrInvalidSize, optimizer.ErrInsufficientPool, optimizer.ErrUnknownObjective} {
				deps.optimizeErr = err
				w := do(mux, http.MethodPost, "/lineup", `{"players":`+players+`,"size":1}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When a player has a negative rating", func() {
			w := do(mux, http.MethodPost, "/lineup", `{"players":[{"id":"a","name":"A","rating":-500},{"id":"b","name":"B","rating":-300}],"size":2}`)

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.optimizeErr = errors.New("boom")
			w := do(mux, http.MethodPost, "/lineup", `{"players":`+players+`,"size":1}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "internal_error")
		})
	})
}

func TestScenarioHandler(t *testing.T) {
	Convey("Given the scenarios endpoint", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("When a batch is posted", func() {
			w := do(mux, http.MethodPost, "/scenarios", `{"players":`+players+`,"scenarios":[{"name":"a"},{"name":"b","exclude_ids":["1"]}],"size":1}`)

			Convey("Then every result is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Results []model.ScenarioResult `json:"results"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Results), ShouldEqual, 2)
				So(body.Results[1].ScenarioName, ShouldEqual, "b")
			})
		})

		Convey("When the batch has no scenarios", func() {
			w := do(mux, http.MethodPost, "/scenarios", `{"players":`+players+`,"size":1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestJobHandler(t *testing.T) {
	Convey("Given the jobs endpoints", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)
		body := `{"request_id":"r-1","players":` + players + `,"scenarios":[{"name":"a"}],"size":1}`

		Convey("When a new job is submitted", func() {
			w := do(mux, http.MethodPost, "/jobs", body)

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"job_id":"job-1"`)
				So(deps.lastJob.RequestID, ShouldEqual, "r-1")
				So(len(deps.lastJob.Scenarios), ShouldEqual, 1)
			})
		})

		Convey("When the request id was seen before", func() {
			deps.duplicate = true
			w := do(mux, http.MethodPost, "/jobs", body)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
		})

		Convey("When the queue is full", func() {
			deps.submitErr = fmt.Errorf("%w: queue full", types.ErrBackpressure)
			w := do(mux, http.MethodPost, "/jobs", body)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(errorCode(w), ShouldEqual, "backpressure")
		})

		Convey("When the service is stopping", func() {
			deps.submitErr = types.ErrStopped
			w := do(mux, http.MethodPost, "/jobs", body)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When reading a job", func() {
			w := do(mux, http.MethodGet, "/jobs/job-1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"done"`)

			w = do(mux, http.MethodGet, "/jobs/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)

			w = do(mux, http.MethodGet, "/jobs/a/b", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHistoryHandler(t *testing.T) {
	Convey("Given the history endpoints", t, func() {
		deps := &mockDependencies{entries: []types.Entry{
			{Rank: 1, ScenarioResult: model.ScenarioResult{ID: 2, ScenarioName: "best"}},
			{Rank: 2, ScenarioResult: model.ScenarioResult{ID: 1, ScenarioName: "next"}},
		}}
		mux := newMux(deps)

		Convey("When listing with a limit", func() {
			w := do(mux, http.MethodGet, "/history?limit=1", "")

			Convey("Then the top entries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []types.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].ScenarioName, ShouldEqual, "best")
			})
		})

		Convey("When listing without a limit", func() {
			w := do(mux, http.MethodGet, "/history", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 5)
		})

		Convey("When the limit is invalid or too large", func() {
			So(do(mux, http.MethodGet, "/history?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/history?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)

			w := do(mux, http.MethodGet, "/history?limit=6", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "limit_exceeded")
		})

		Convey("When the store fails", func() {
			deps.topNErr = errors.New("boom")
			So(do(mux, http.MethodGet, "/history?limit=1", "").Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When reading one result", func() {
			w := do(mux, http.MethodGet, "/history/1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"rank":2`)

			So(do(mux, http.MethodGet, "/history/9", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/history/x", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAnalyticsHandler(t *testing.T) {
	Convey("Given the analytics endpoints", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("When predicting", func() {
			w := do(mux, http.MethodPost, "/predict", `{"team_a":`+players+`,"team_b":`+players+`}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"win_probability":0.5`)

			w = do(mux, http.MethodPost, "/predict", `{"team_a":`+players+`}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When sweeping", func() {
			w := do(mux, http.MethodPost, "/sensitivity", `{"players":`+players+`,"size":1,"weights":[0,0.5]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp types.SensitivityResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp.Points), ShouldEqual, 2)
		})

		Convey("When summarising a roster", func() {
			w := do(mux, http.MethodPost, "/performance", `{"players":[{"id":"1","name":"A","rating":1500,"history":[{"date":"2030-01-01","rating":1450},{"date":"2030-02-01","rating":1500}]}]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp types.PerformanceResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Strength.Count, ShouldEqual, 1)
			So(resp.Trends[0].RecentDelta, ShouldEqual, 50)

			w = do(mux, http.MethodPost, "/performance", `{"players":[]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
