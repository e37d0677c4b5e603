package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jewelry-pricer/internal/adapters/shopify/dto"
	"jewelry-pricer/internal/config"
	"jewelry-pricer/internal/logging"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLErrors is returned when the Admin API answers 200 with top level errors.
type GraphQLErrors struct {
	Errors []dto.GraphQLError
}

func (e *GraphQLErrors) Error() string {
	return fmt.Sprintf("shopify graphql errors: %s", formatGraphQLErrors(e.Errors))
}

type Client struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    func(attempt int) time.Duration
	logger     logging.LoggerService
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, logger logging.LoggerService) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		backoff:    retryDelay,
		logger:     logger,
	}
}

func (c *Client) endpoint() (string, error) {
	domain := strings.TrimSpace(c.config.ShopDomain)
	if domain == "" {
		return "", errors.New("shopify shop domain is empty")
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	domain = strings.TrimRight(domain, "/")
	if c.config.APIVer == "" {
		return "", errors.New("shopify api version is empty")
	}
	return domain + "/admin/api/" + c.config.APIVer + "/graphql.json", nil
}

func (c *Client) shopifyAPIRequest(ctx context.Context, method string, endpoint string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}

	return respBody, nil
}

// graphqlRequest sends one GraphQL document and decodes data into out. It never retries;
// read paths go through graphqlQuery instead.
func (c *Client) graphqlRequest(ctx context.Context, query string, variables map[string]any, out any) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	payload := graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	raw, err := c.shopifyAPIRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}

	var resp dto.GraphQLResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("shopify graphql decode: %w", err)
	}
	if len(resp.Errors) > 0 {
		return &GraphQLErrors{Errors: resp.Errors}
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return errors.New("shopify graphql response missing data")
	}
	return json.Unmarshal(resp.Data, out)
}

func formatGraphQLErrors(errs []dto.GraphQLError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s (path: %v)", msg, e.Path)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(parts, "; ")
}

func (c *Client) logWarning(message string) {
	if c.logger == nil || strings.TrimSpace(message) == "" {
		return
	}
	c.logger.LogWarning(message)
}
