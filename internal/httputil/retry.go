// Package httputil holds HTTP helpers shared by the outbound API clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spigell/candidate-sourcer/internal/utils"
	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff on HTTP 429. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

// MaxRetryDelay caps both the exponential backoff and any Retry-After hint.
var MaxRetryDelay = 30 * time.Second

const defaultMaxRetries = 3

// DoWithRetry sends req and retries on HTTP 429 with exponential backoff,
// honouring a Retry-After header expressed in seconds. After maxRetries the
// last 429 response is returned for the caller to inspect.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *zap.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	delay := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := delay
		if hint := retryAfter(resp.Header.Get("Retry-After")); hint > 0 {
			wait = hint
		}
		if wait > MaxRetryDelay {
			wait = MaxRetryDelay
		}

		logger.Debug("rate limited, retrying",
			zap.String("url", req.URL.String()),
			zap.Duration("delay", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		if err := utils.WaitFor(ctx, wait); err != nil {
			return nil, err
		}
		delay *= 2
	}
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
