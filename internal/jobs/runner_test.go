package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"settlement-profit/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	err     error
	release chan struct{}

	mu       sync.Mutex
	requests []domain.ReconcileRequest
}

func (e *fakeEngine) Reconcile(ctx context.Context, req domain.ReconcileRequest) (*domain.ReconcileResult, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if e.release != nil {
		<-e.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.err != nil {
		return nil, e.err
	}
	if err := os.WriteFile(req.OutputPath, []byte("artifact"), 0o600); err != nil {
		return nil, err
	}
	return &domain.ReconcileResult{
		ArtifactPath: req.OutputPath,
		Totals: domain.TotalsBlock{
			Titles: []string{"TotalProfit"},
			Values: []decimal.Decimal{decimal.RequireFromString("705")},
		},
		Stats: domain.RunStats{RowsRead: 3, RowsRetained: 2, EntriesEmitted: 2},
	}, nil
}

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(path string) error {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func newUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04"), 0o600))
	return path
}

func TestRunner_CompletedJob(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC)
	engine := &fakeEngine{}
	files := &recordingRemover{}
	exportDir := filepath.Join(t.TempDir(), "exports")
	runner := NewRunner(engine, files, exportDir, WithClock(func() time.Time { return now }))

	upload := newUpload(t)
	pricing := []domain.PricingInput{{SKU: "4600000000017", PurchasePrice: 300}}

	token, err := runner.Submit(context.Background(), upload, pricing)
	require.NoError(t, err)
	assert.Len(t, token, 32)
	runner.Wait()

	require.Len(t, engine.requests, 1)
	assert.Equal(t, upload, engine.requests[0].ReportPath)
	assert.Equal(t, filepath.Join(exportDir, token+".xlsx"), engine.requests[0].OutputPath)
	assert.Equal(t, pricing, engine.requests[0].Pricing)

	job, err := runner.Status(token)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, "processed_20250301_1405.xlsx", job.DownloadName)
	require.NotNil(t, job.Totals)
	assert.Equal(t, "705", job.Totals.Values[0].String())
	assert.Equal(t, 2, job.Stats.EntriesEmitted)
	assert.NoFileExists(t, upload, "upload is removed after processing")

	data, name, err := runner.TakeArtifact(token)
	require.NoError(t, err)
	assert.Equal(t, "artifact", string(data))
	assert.Equal(t, "processed_20250301_1405.xlsx", name)
	assert.NoFileExists(t, filepath.Join(exportDir, token+".xlsx"))

	_, _, err = runner.TakeArtifact(token)
	assert.ErrorIs(t, err, domain.ErrJobNotFound, "artifact is one-shot")
	_, err = runner.Status(token)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestRunner_FailedJob(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "layout mismatch",
			err:     fmt.Errorf("could not read settlement report: %w", domain.ErrUnsupportedLayout),
			message: "report columns do not match the expected layout",
		},
		{
			name:    "broken workbook",
			err:     fmt.Errorf("could not read settlement report: %w", domain.ErrInvalidWorkbook),
			message: "report could not be read",
		},
		{
			name:    "write failure",
			err:     fmt.Errorf("could not write report: %w: disk full", domain.ErrWriteReport),
			message: "failed to process report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := &recordingRemover{}
			runner := NewRunner(&fakeEngine{err: tt.err}, files, t.TempDir())
			upload := newUpload(t)

			token, err := runner.Submit(context.Background(), upload, nil)
			require.NoError(t, err)
			runner.Wait()

			job, err := runner.Status(token)
			require.NoError(t, err)
			assert.Equal(t, StatusFailed, job.Status)
			assert.Equal(t, tt.message, job.Error)
			assert.Nil(t, job.Totals)
			assert.Equal(t, []string{upload}, files.removed)
			assert.NoFileExists(t, upload)

			_, _, err = runner.TakeArtifact(token)
			assert.ErrorIs(t, err, domain.ErrJobNotFound)
		})
	}
}

func TestRunner_ProcessingJobIsNotReady(t *testing.T) {
	engine := &fakeEngine{release: make(chan struct{})}
	runner := NewRunner(engine, &recordingRemover{}, t.TempDir())

	token, err := runner.Submit(context.Background(), newUpload(t), nil)
	require.NoError(t, err)

	job, err := runner.Status(token)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, job.Status)

	_, _, err = runner.TakeArtifact(token)
	assert.ErrorIs(t, err, domain.ErrJobNotReady)

	close(engine.release)
	runner.Wait()

	job, err = runner.Status(token)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
}

func TestRunner_SurvivesRequestCancellation(t *testing.T) {
	engine := &fakeEngine{release: make(chan struct{})}
	runner := NewRunner(engine, &recordingRemover{}, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	token, err := runner.Submit(ctx, newUpload(t), nil)
	require.NoError(t, err)
	cancel()
	close(engine.release)
	runner.Wait()

	job, err := runner.Status(token)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
}

func TestRunner_StatusExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	runner := NewRunner(&fakeEngine{}, &recordingRemover{}, t.TempDir(),
		WithClock(clock),
		WithStatusTTL(30*time.Minute),
	)
	first, err := runner.Submit(context.Background(), newUpload(t), nil)
	require.NoError(t, err)
	runner.Wait()

	advance(20 * time.Minute)
	second, err := runner.Submit(context.Background(), newUpload(t), nil)
	require.NoError(t, err)
	runner.Wait()

	advance(15 * time.Minute)
	assert.Equal(t, 1, runner.Sweep())

	_, err = runner.Status(first)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	_, err = runner.Status(second)
	assert.NoError(t, err)

	advance(time.Hour)
	_, _, err = runner.TakeArtifact(second)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestRunner_Submit_Validation(t *testing.T) {
	runner := NewRunner(&fakeEngine{}, &recordingRemover{}, t.TempDir())
	_, err := runner.Submit(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = runner.Status("unknown")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "processed_20251231_0907.xlsx", DownloadName(time.Date(2025, 12, 31, 9, 7, 59, 0, time.UTC)))
}
