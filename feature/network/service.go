package network

import (
	"context"
	"errors"
	"sync"

	"hotspot-control/core/outbound"
	"hotspot-control/core/pool"

	"go.uber.org/zap"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"statusCode,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Cached     bool   `json:"cached"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes a check.
type Report struct {
	Online bool          `json:"online"`
	Results []CheckResult `json:"results"`
}

// Service runs connectivity checks.
type Service struct {
	client *outbound.Client
	urls   []string
	logger *zap.Logger
}

// NewService creates a new network service.
func NewService(client *outbound.Client, urls []string, logger *zap.Logger) *Service {
	return &Service{client: client, urls: urls, logger: logger}
}

// Check checks every URL on the client's executor. The report is online when
// any check succeeded.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.urls))

	var wg sync.WaitGroup
	for i, url := range s.urls {
		results[i].URL = url

		wg.Add(1)
		err := s.client.Go(ctx, url, func(resp *outbound.Response, err error) {
			defer wg.Done()
			if err != nil {
				s.logger.Debug("Check failed", zap.String("url", url), zap.Error(err))
				results[i].Error = describe(err)
				return
			}
			results[i].StatusCode = resp.StatusCode
			results[i].Reachable = resp.StatusCode >= 200 && resp.StatusCode < 400
			results[i].DurationMs = resp.Duration.Milliseconds()
			results[i].Cached = resp.Cached
		})
		if err != nil {
			wg.Done()
			results[i].Error = describe(err)
		}
	}

	// Queued checks always run, and each request is bound by ctx and the
	// client timeout.
	wg.Wait()

	report := Report{Results: results}
	for _, r := range results {
		if r.Reachable {
			report.Online = true
			break
		}
	}
	return report
}

func describe(err error) string {
	switch {
	case errors.Is(err, pool.ErrSaturated):
		return "check queue full"
	case errors.Is(err, outbound.ErrClosed), errors.Is(err, pool.ErrClosed):
		return "client closed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "unreachable"
	}
}
