package usecase

import (
	"context"
	"time"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	"github.com/opsdeck/filegate/internal/metrics"
)

// downloadUseCaseWithMetrics decorates DownloadUseCase with metrics instrumentation.
type downloadUseCaseWithMetrics struct {
	next    DownloadUseCase
	metrics metrics.BusinessMetrics
}

// NewDownloadUseCaseWithMetrics wraps a DownloadUseCase with metrics recording.
func NewDownloadUseCaseWithMetrics(useCase DownloadUseCase, m metrics.BusinessMetrics) DownloadUseCase {
	return &downloadUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Download records metrics for gateway download operations.
func (d *downloadUseCaseWithMetrics) Download(
	ctx context.Context,
	input *downloadDomain.DownloadInput,
) (*downloadDomain.DownloadOutput, error) {
	start := time.Now()
	output, err := d.next.Download(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "download", "download", status)
	d.metrics.RecordDuration(ctx, "download", "download", time.Since(start), status)

	return output, err
}

// IssueLink records metrics for link issuance operations.
func (d *downloadUseCaseWithMetrics) IssueLink(
	ctx context.Context,
	input *downloadDomain.IssueLinkInput,
) (*downloadDomain.IssueLinkOutput, error) {
	start := time.Now()
	output, err := d.next.IssueLink(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "download", "issue_link", status)
	d.metrics.RecordDuration(ctx, "download", "issue_link", time.Since(start), status)

	return output, err
}
