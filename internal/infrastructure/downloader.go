package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/pkg/retry"
)

// Fetcher issues single rate-limited requests against media hosts.
// Implemented by the feed API client so every download counts against the
// shared request budget.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
	Probe(ctx context.Context, url string) (bool, error)
}

// FileDownloader streams one resource to a temporary file with retry and a
// byte-size ceiling. It never writes to a final path; committing is the
// organizer's job.
type FileDownloader struct {
	fetcher  Fetcher
	policy   retry.Policy
	maxBytes int64 // 0 = unlimited
	logger   *zap.Logger
}

// NewFileDownloader creates a downloader with the shared retry schedule
func NewFileDownloader(fetcher Fetcher, policy retry.Policy, maxFileSizeMB int64, log *zap.Logger) *FileDownloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileDownloader{
		fetcher:  fetcher,
		policy:   policy,
		maxBytes: maxFileSizeMB * 1024 * 1024,
		logger:   log,
	}
}

// Probe checks whether a resource exists without downloading it
func (d *FileDownloader) Probe(ctx context.Context, url string) (bool, error) {
	return d.fetcher.Probe(ctx, url)
}

// Download fetches url into tmpPath. It returns bytes written and attempts
// made. On any failure the temporary file is removed; no partial file is
// ever retained. A size-ceiling violation surfaces as a non-retryable
// SizeExceeded error so the caller can record a skip instead of a failure.
func (d *FileDownloader) Download(ctx context.Context, url, tmpPath string) (int64, int, error) {
	var written int64

	attempts, err := d.policy.Do(ctx, func() error {
		written = 0
		err := d.fetchOnce(ctx, url, tmpPath, &written)
		if err != nil {
			os.Remove(tmpPath)
			d.logger.Debug("fetch attempt failed",
				zap.String("url", url),
				zap.Error(err))
		}
		return err
	})
	if err != nil {
		return 0, attempts, err
	}
	return written, attempts, nil
}

func (d *FileDownloader) fetchOnce(ctx context.Context, url, tmpPath string, written *int64) error {
	resp, err := d.fetcher.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if d.maxBytes > 0 && resp.ContentLength > d.maxBytes {
		return domain.NewClassifiedError(domain.ErrSizeExceeded,
			fmt.Errorf("declared size %d exceeds limit %d", resp.ContentLength, d.maxBytes))
	}

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return domain.NewClassifiedError(domain.ErrTransientFailure, err)
	}
	defer file.Close()

	reader := io.Reader(resp.Body)
	if d.maxBytes > 0 {
		// One byte past the ceiling proves the observed size exceeds it.
		reader = io.LimitReader(resp.Body, d.maxBytes+1)
	}

	n, err := io.Copy(file, reader)
	*written = n
	if err != nil {
		return domain.NewClassifiedError(domain.ErrTransientFailure, err)
	}
	if d.maxBytes > 0 && n > d.maxBytes {
		return domain.NewClassifiedError(domain.ErrSizeExceeded,
			fmt.Errorf("observed size exceeds limit %d", d.maxBytes))
	}
	if err := file.Sync(); err != nil {
		return domain.NewClassifiedError(domain.ErrTransientFailure, err)
	}
	return nil
}
