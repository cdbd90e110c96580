package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
)

// send performs one HTTP request. It waits on the rate limiter, stamps a request
// ID and maps transport failures to ErrNetwork. There is no retry.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	logger := c.logger.With(
		zap.String(logging.FieldRequestID, requestID),
		zap.String(logging.FieldMethod, req.Method),
		zap.String(logging.FieldPath, req.URL.Path),
	)
	logger.Debug("Sending request")

	resp, err := c.HTTPClient.Do(req.WithContext(ctx))
	if err != nil {
		logger.Debug("Request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, req.Method, req.URL.Path, err)
	}

	logger.Debug("Received response", zap.Int(logging.FieldStatusCode, resp.StatusCode))
	return resp, nil
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
