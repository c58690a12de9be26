// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lineup/internal/adapters/mq/queue"
	"github.com/okian/lineup/internal/adapters/mq/worker"
	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/domain/dedupe"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/performance"
	"github.com/okian/lineup/internal/domain/prediction"
	"github.com/okian/lineup/internal/domain/report"
	"github.com/okian/lineup/internal/domain/scenario"
	"github.com/okian/lineup/internal/domain/sensitivity"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Service implements the API dependencies for the lineup system.
type Service struct {
	mu sync.RWMutex

	// Core components
	optimizer *optimizer.Optimizer
	runner    *scenario.Runner
	history   repository.Store
	deduper   dedupe.Deduper
	jobQueue  *queue.InMemoryQueue
	pool      *worker.Pool
	jobs      *jobTracker

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	historyLimit  int
	defaultWeight float64
	optimizerOpts []optimizer.Option
	now           func() time.Time

	started bool
	stopped bool

	logger logger.Logger
}

// New constructs a Service. Synchronous operations work immediately;
// submitted jobs run once Start has been called.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   2,
		queueSize:     1024,
		dedupeSize:    50_000,
		historyLimit:  10_000,
		defaultWeight: optimizer.DefaultWeightSpread,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrGlobal(s.logger, "service")

	s.optimizer = optimizer.New(append(s.optimizerOpts, optimizer.WithLogger(s.logger.Named("optimizer")))...)
	// The optimizer is never nil, so New cannot fail here.
	s.runner, _ = scenario.New(s.optimizer,
		scenario.WithClock(s.now),
		scenario.WithLogger(s.logger.Named("scenario")),
	)
	s.history = repository.NewTreapStore(
		repository.WithLimit(s.historyLimit),
		repository.WithLogger(s.logger.Named("history")),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.jobs = newJobTracker()
	return s
}

// Start launches the worker pool. Calling it again is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return types.ErrStopped
	}
	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting lineup service...")

	s.pool = worker.NewPool(s.workerCount, s.jobQueue, s, s.logger)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "lineup service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("historyLimit", s.historyLimit),
	)
	return nil
}

// Stop closes the queue and waits for queued jobs until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true
	s.logger.Info(ctx, "stopping lineup service...")

	var err error
	if s.pool != nil {
		err = s.pool.Shutdown(ctx)
	} else {
		err = s.jobQueue.Close()
	}
	s.started = false
	s.logger.Info(ctx, "lineup service stopped")
	return err
}

// Optimize selects the best lineup for req.
func (s *Service) Optimize(ctx context.Context, req types.LineupRequest) (model.LineupResult, error) {
	if err := req.Validate(); err != nil {
		return model.LineupResult{}, err
	}
	obj, err := types.ResolveObjective(req.Objective, req.WeightSpread, s.defaultWeight)
	if err != nil {
		return model.LineupResult{}, err
	}
	pool := scenario.Filter(req.Players, model.Scenario{}, req.AvailabilityDate)
	return s.optimizer.Optimize(ctx, pool, req.Size, obj)
}

// RunScenarios evaluates a batch synchronously and stores its results.
func (s *Service) RunScenarios(ctx context.Context, req model.BatchRequest) ([]model.ScenarioResult, error) {
	if err := types.ValidateBatch(req); err != nil {
		return nil, err
	}
	return s.runBatch(ctx, req)
}

// runBatch reserves IDs, runs the batch and appends whatever completed,
// including a partial batch cut short by ctx.
func (s *Service) runBatch(ctx context.Context, req model.BatchRequest) ([]model.ScenarioResult, error) {
	obj, err := types.ResolveObjective(req.Objective, req.WeightSpread, s.defaultWeight)
	if err != nil {
		return nil, err
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: got %d", optimizer.ErrInvalidSize, req.Size)
	}

	start := s.history.Reserve(ctx, len(req.Scenarios))
	results, runErr := s.runner.Run(ctx, req.Players, req.Scenarios, req.Size, obj, scenario.RunOptions{
		AvailabilityDate: req.AvailabilityDate,
		StartID:          start,
	})
	if len(results) > 0 {
		if err := s.history.Append(ctx, results...); err != nil {
			return results, errors.Join(runErr, err)
		}
	}
	return results, runErr
}

// Submit queues a batch job. A request ID seen before resolves to the job
// it created and is reported as a duplicate.
func (s *Service) Submit(ctx context.Context, req types.JobRequest) (types.JobAccepted, error) {
	if err := req.Validate(); err != nil {
		return types.JobAccepted{}, err
	}

	job := model.Job{
		ID:          uuid.NewString(),
		RequestID:   req.RequestID,
		Request:     req.BatchRequest,
		SubmittedAt: s.now().UTC(),
	}
	owner, duplicate := s.deduper.Claim(ctx, req.RequestID, job.ID)
	if duplicate {
		metrics.RecordJobDuplicate()
		st, err := s.jobs.get(owner)
		if err != nil {
			// The owning job was submitted but not tracked yet.
			return types.JobAccepted{JobID: owner, Status: model.JobQueued, Duplicate: true}, nil
		}
		return types.JobAccepted{JobID: owner, Status: st.Status, Duplicate: true}, nil
	}

	s.jobs.queued(job)
	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		s.jobs.forget(job.ID)
		s.deduper.Release(ctx, req.RequestID)
		switch {
		case errors.Is(err, queue.ErrFull):
			return types.JobAccepted{}, fmt.Errorf("%w: %w", types.ErrBackpressure, err)
		case errors.Is(err, queue.ErrClosed):
			return types.JobAccepted{}, fmt.Errorf("%w: %w", types.ErrStopped, err)
		}
		return types.JobAccepted{}, err
	}
	metrics.RecordJobSubmitted()
	s.logger.Debug(ctx, "job queued",
		logger.String("jobID", job.ID),
		logger.String("requestID", job.RequestID),
		logger.Int("scenarios", len(job.Request.Scenarios)),
	)
	return types.JobAccepted{JobID: job.ID, Status: model.JobQueued}, nil
}

// Process runs a queued job. It implements worker.Processor.
func (s *Service) Process(ctx context.Context, job model.Job) error {
	s.jobs.running(job.ID)
	results, err := s.runBatch(ctx, job.Request)

	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	s.jobs.finish(job.ID, s.now().UTC(), ids, err)

	status := string(model.JobDone)
	if err != nil {
		status = string(model.JobFailed)
	}
	metrics.RecordJobFinished(status)
	return err
}

// Job returns the state of a submitted job.
func (s *Service) Job(_ context.Context, id string) (model.JobState, error) {
	return s.jobs.get(id)
}

// TopN returns the best n stored results.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.history.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidRequest, err)
	}
	return entries, nil
}

// Result returns a stored result with its rank.
func (s *Service) Result(ctx context.Context, id int) (types.Entry, error) {
	entry, err := s.history.Rank(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return types.Entry{}, fmt.Errorf("%w: %w", types.ErrNotFound, err)
	}
	return entry, err
}

// History returns every stored result ordered by ID.
func (s *Service) History(ctx context.Context) []model.ScenarioResult {
	return s.history.All(ctx)
}

// Report renders the markdown report over the stored history.
func (s *Service) Report(ctx context.Context) string {
	return report.Build(s.history.All(ctx))
}

// Predict compares two lineups.
func (s *Service) Predict(_ context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	if err := req.Validate(); err != nil {
		return types.PredictResponse{}, err
	}
	resp := types.PredictResponse{
		WinProbability: prediction.WinProbability(req.TeamA, req.TeamB, req.Scale),
		RatingDiff:     model.TeamRating(req.TeamA) - model.TeamRating(req.TeamB),
	}
	if req.Iterations > 0 {
		sim, err := prediction.SimulateMatch(req.TeamA, req.TeamB, req.Iterations, req.Seed)
		if err != nil {
			return types.PredictResponse{}, err
		}
		resp.Simulation = &sim
	}
	if len(req.Candidates) > 0 {
		resp.Evaluations = prediction.EvaluateAgainst(req.Candidates, req.TeamB)
		rec := prediction.Recommend(req.Candidates, req.TeamB)
		resp.Recommendation = &rec
	}
	metrics.RecordPrediction()
	return resp, nil
}

// Sensitivity sweeps the weighted objective over req.Weights.
func (s *Service) Sensitivity(ctx context.Context, req types.SensitivityRequest) (types.SensitivityResponse, error) {
	if err := req.Validate(); err != nil {
		return types.SensitivityResponse{}, err
	}
	for _, w := range req.Weights {
		if w < 0 {
			return types.SensitivityResponse{}, fmt.Errorf("%w: negative weight %g", types.ErrInvalidRequest, w)
		}
	}
	points, err := sensitivity.Sweep(ctx, s.optimizer, req.Players, req.Size, req.Weights)
	if err != nil {
		return types.SensitivityResponse{}, err
	}
	resp := types.SensitivityResponse{Points: points}
	if best, ok := sensitivity.Best(points); ok {
		resp.Best = &best
	}
	return resp, nil
}

// Performance reports the strength and rating trends of a roster.
func (s *Service) Performance(_ context.Context, req types.PerformanceRequest) (types.PerformanceResponse, error) {
	if err := req.Validate(); err != nil {
		return types.PerformanceResponse{}, err
	}
	return types.PerformanceResponse{
		Strength: performance.TeamStrength(req.Players),
		Trends:   performance.Trends(req.Players),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	queueLen := s.jobQueue.Len(ctx)
	historySize := s.history.Count(ctx)
	counts := s.jobs.counts()

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateHistorySize(historySize)

	return map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"queueLength":  queueLen,
		"dedupeSize":   s.deduper.Size(),
		"historySize":  historySize,
		"historyLimit": s.historyLimit,
		"nextResultID": s.history.NextID(ctx),
		"jobsQueued":   counts[model.JobQueued],
		"jobsRunning":  counts[model.JobRunning],
		"jobsDone":     counts[model.JobDone],
		"jobsFailed":   counts[model.JobFailed],
	}
}
