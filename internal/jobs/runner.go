package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"settlement-profit/internal/domain"
	"settlement-profit/internal/observability/metrics"
)

// Status is the lifecycle state of a reconcile job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DefaultStatusTTL is how long a job status is kept after its last update.
const DefaultStatusTTL = time.Hour

// Engine runs one reconciliation.
type Engine interface {
	Reconcile(ctx context.Context, req domain.ReconcileRequest) (*domain.ReconcileResult, error)
}

// FileRemover deletes stored files. Removing a missing file is not an error.
type FileRemover interface {
	Remove(path string) error
}

// Job is the status document of a submitted reconciliation.
type Job struct {
	Token        string              `json:"token"`
	Status       Status              `json:"status"`
	DownloadName string              `json:"download_name,omitempty"`
	Totals       *domain.TotalsBlock `json:"totals,omitempty"`
	Stats        *domain.RunStats    `json:"stats,omitempty"`
	Error        string              `json:"error,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`

	artifactPath string
	expiresAt    time.Time
}

// Runner executes reconcile jobs in the background and keeps their status in memory.
type Runner struct {
	engine    Engine
	files     FileRemover
	exportDir string
	statusTTL time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithStatusTTL sets how long statuses are kept.
func WithStatusTTL(ttl time.Duration) Option {
	return func(r *Runner) {
		if ttl > 0 {
			r.statusTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner creates a runner writing artifacts to exportDir.
func NewRunner(engine Engine, files FileRemover, exportDir string, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		files:     files,
		exportDir: exportDir,
		statusTTL: DefaultStatusTTL,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		jobs:      make(map[string]*Job),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit registers a processing job for the upload at uploadPath and starts it.
// The job outlives ctx cancellation but keeps its values.
func (r *Runner) Submit(ctx context.Context, uploadPath string, pricing []domain.PricingInput) (string, error) {
	if uploadPath == "" {
		return "", fmt.Errorf("%w: upload path is required", domain.ErrInvalidRequest)
	}
	if err := os.MkdirAll(r.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", r.exportDir, err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	r.put(&Job{Token: token, Status: StatusProcessing})

	req := domain.ReconcileRequest{
		ReportPath: uploadPath,
		OutputPath: filepath.Join(r.exportDir, token+".xlsx"),
		Pricing:    pricing,
	}

	r.wg.Add(1)
	metrics.JobStarted()
	go func() {
		defer r.wg.Done()
		defer metrics.JobFinished()
		r.run(context.WithoutCancel(ctx), token, req)
	}()
	return token, nil
}

func (r *Runner) run(ctx context.Context, token string, req domain.ReconcileRequest) {
	logger := r.logger.With(slog.String("token", token))
	start := r.now()

	result, err := r.engine.Reconcile(ctx, req)

	if rmErr := r.files.Remove(req.ReportPath); rmErr != nil {
		logger.Warn("failed to remove upload", slog.String("error", rmErr.Error()))
	}

	if err != nil {
		metrics.ObserveReconcile(metrics.ResultError, r.now().Sub(start))
		logger.Error("reconcile job failed", slog.String("error", err.Error()))
		r.put(&Job{Token: token, Status: StatusFailed, Error: publicMessage(err)})
		return
	}

	metrics.ObserveReconcile(metrics.ResultSuccess, r.now().Sub(start))
	metrics.AddRows(metrics.StageRead, result.Stats.RowsRead)
	metrics.AddRows(metrics.StageRetained, result.Stats.RowsRetained)
	metrics.AddRows(metrics.StageEmitted, result.Stats.EntriesEmitted)
	metrics.AddRows(metrics.StageFlushed, result.Stats.PendingFlushed)

	totals, stats := result.Totals, result.Stats
	r.put(&Job{
		Token:        token,
		Status:       StatusCompleted,
		DownloadName: DownloadName(r.now()),
		Totals:       &totals,
		Stats:        &stats,
		artifactPath: result.ArtifactPath,
	})
	logger.Info("reconcile job completed", slog.Int("entries", stats.EntriesEmitted))
}

// DownloadName is the file name offered for an artifact completed at t.
func DownloadName(t time.Time) string {
	return "processed_" + t.Format("20060102_1504") + ".xlsx"
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedLayout):
		return "report columns do not match the expected layout"
	case errors.Is(err, domain.ErrInvalidWorkbook):
		return "report could not be read"
	default:
		return "failed to process report"
	}
}

func (r *Runner) put(job *Job) {
	job.UpdatedAt = r.now()
	job.expiresAt = job.UpdatedAt.Add(r.statusTTL)
	r.mu.Lock()
	r.jobs[job.Token] = job
	r.mu.Unlock()
}

// lookup returns the live job for token. Callers hold r.mu.
func (r *Runner) lookup(token string) (*Job, bool) {
	job, ok := r.jobs[token]
	if !ok {
		return nil, false
	}
	if !r.now().Before(job.expiresAt) {
		delete(r.jobs, token)
		return nil, false
	}
	return job, true
}

// Status returns a copy of the job status.
func (r *Runner) Status(token string) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.lookup(token)
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", domain.ErrJobNotFound, token)
	}
	return *job, nil
}

// TakeArtifact returns the artifact bytes and download name of a completed job, then
// deletes the artifact and forgets the job. A second call reports ErrJobNotFound.
func (r *Runner) TakeArtifact(token string) ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.lookup(token)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrJobNotFound, token)
	}
	switch job.Status {
	case StatusProcessing:
		return nil, "", fmt.Errorf("%w: %s", domain.ErrJobNotReady, token)
	case StatusFailed:
		return nil, "", fmt.Errorf("%w: %s failed", domain.ErrJobNotFound, token)
	}

	data, err := os.ReadFile(job.artifactPath)
	delete(r.jobs, token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: artifact of %s: %w", domain.ErrJobNotFound, token, err)
	}
	if err := r.files.Remove(job.artifactPath); err != nil {
		r.logger.Warn("failed to remove artifact", slog.String("token", token), slog.String("error", err.Error()))
	}
	return data, job.DownloadName, nil
}

// Sweep forgets expired statuses and returns how many were dropped.
func (r *Runner) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for token := range r.jobs {
		if _, ok := r.lookup(token); !ok {
			dropped++
		}
	}
	return dropped
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
