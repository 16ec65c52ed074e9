package adapters

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

// ContentFetcher executes provider HTTP requests and classifies failures as
// transient or permanent for the gateway's retry loop. Rate limits, 5xx
// responses and network timeouts are transient; other non-OK statuses are
// permanent.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		// transport-level failures (timeouts, resets) are worth retrying
		return nil, &domain.TransientError{Cause: err}
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error(err, "Failed to close the response body")
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, &domain.TransientError{Cause: err}
	}

	if res.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("HTTP request returned non-OK status code %d: %s", res.StatusCode, string(payload))
		c.logger.ErrorWithFields(statusErr, "HTTP request returned non-OK status code", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
			"status": res.StatusCode,
		})
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			return nil, &domain.TransientError{Cause: statusErr}
		}
		return nil, statusErr
	}

	return payload, nil
}
