package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jewelry-pricer/internal/adapters/shopify/dto"
)

const (
	graphqlRetryMax       = 5
	graphqlRetryBaseDelay = 500 * time.Millisecond
	graphqlRetryMaxDelay  = 10 * time.Second
)

// HTTPStatusError is a non-2xx answer from the Admin API.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("shopify request failed: %s", e.Status)
	}
	return fmt.Sprintf("shopify request failed: %s: %s", e.Status, e.Body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	return &HTTPStatusError{
		StatusCode: statusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func isRetryableHTTPError(err error) bool {
	var httpErr *HTTPStatusError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func isThrottleGraphQLError(errs []dto.GraphQLError) bool {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Message), "throttled") {
			return true
		}
		if code, ok := e.Extensions["code"].(string); ok && strings.EqualFold(code, "THROTTLED") {
			return true
		}
	}
	return false
}

func isRetryable(err error) bool {
	if isRetryableHTTPError(err) {
		return true
	}
	var gqlErr *GraphQLErrors
	if errors.As(err, &gqlErr) {
		return isThrottleGraphQLError(gqlErr.Errors)
	}
	return false
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	delay := graphqlRetryBaseDelay << attempt
	if delay > graphqlRetryMaxDelay || delay <= 0 {
		delay = graphqlRetryMaxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// graphqlQuery is graphqlRequest with backoff on throttling and 5xx. Only use it for
// queries; mutations are sent once.
func (c *Client) graphqlQuery(ctx context.Context, query string, variables map[string]any, out any) error {
	var err error
	for attempt := 0; attempt <= graphqlRetryMax; attempt++ {
		err = c.graphqlRequest(ctx, query, variables, out)
		if err == nil || !isRetryable(err) || attempt == graphqlRetryMax {
			return err
		}
		c.logWarning(fmt.Sprintf("shopify query retry attempt=%d error=%v", attempt+1, err))
		if sleepErr := sleepWithContext(ctx, c.backoff(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}
