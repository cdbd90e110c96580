package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yaroslav/sddcctl/models"
)

// Client is the SDK client for the CSP and VMC control plane.
// A client belongs to one CLI invocation: it holds the access token obtained by
// Authorize and sends it on every call. Calls are sequential; the client is not
// meant to be shared between goroutines.
type Client struct {
	// CSPURL is the base URL used for the token exchange.
	CSPURL string

	// VMCURL is the base URL used for all VMC API calls.
	VMCURL string

	// HTTPClient is the HTTP client used for requests.
	HTTPClient *http.Client

	refreshToken string
	accessToken  string
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewClient creates a new SDK client with the given configuration.
// It validates the configuration but does not contact the network; call
// Authorize before any VMC method.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		CSPURL:       config.CSPURL,
		VMCURL:       config.VMCURL,
		HTTPClient:   config.HTTPClient,
		refreshToken: config.RefreshToken,
		logger:       config.Logger,
	}
	if config.RequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	}

	return client, nil
}

// AccessToken returns the token obtained by the last successful Authorize.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// orgPath builds a VMC path under /vmc/api/orgs/{org}.
func orgPath(org string, elems ...string) string {
	path := "/vmc/api/orgs/" + url.PathEscape(org)
	for _, e := range elems {
		path += "/" + url.PathEscape(e)
	}
	return path
}

// parseJSONResponse parses a JSON response body into dest.
// An empty body leaves dest untouched.
func (c *Client) parseJSONResponse(resp *http.Response, dest interface{}) error {
	defer drainAndCloseBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %w", ErrProtocol, err)
	}

	return nil
}

// parseErrorResponse builds an APIError from a non-2xx response.
func (c *Client) parseErrorResponse(req *http.Request, resp *http.Response) error {
	apiErr := &APIError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Class:      ClassifyHTTPStatus(resp.StatusCode),
	}

	var body models.ErrorResponse
	if err := c.parseJSONResponse(resp, &body); err == nil {
		apiErr.Code = body.ErrorCode
		apiErr.Messages = body.ErrorMessages
	}

	return apiErr
}

// doJSONRequest performs an authenticated VMC request with an optional JSON body
// and decodes the JSON response into respBody when it is non-nil.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.VMCURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.addAuthHeaders(req); err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(req, resp)
	}

	if respBody != nil {
		return c.parseJSONResponse(resp, respBody)
	}

	drainAndCloseBody(resp)
	return nil
}

// ListConnectedAccounts returns the connected accounts of an organization in the
// order the provider returns them.
func (c *Client) ListConnectedAccounts(ctx context.Context, org string) ([]models.ConnectedAccount, error) {
	var accounts []models.ConnectedAccount
	if err := c.doJSONRequest(ctx, http.MethodGet, orgPath(org, "account-link", "connected-accounts"), nil, &accounts); err != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", err)
	}

	return accounts, nil
}

// ListSDDCs returns every SDDC of an organization. The API offers no name filter.
func (c *Client) ListSDDCs(ctx context.Context, org string) ([]models.SDDC, error) {
	var sddcs []models.SDDC
	if err := c.doJSONRequest(ctx, http.MethodGet, orgPath(org, "sddcs"), nil, &sddcs); err != nil {
		return nil, fmt.Errorf("failed to list SDDCs: %w", err)
	}

	return sddcs, nil
}

// CreateSDDC submits a create request and returns the provisioning task.
//
// A 2xx answer can still describe a failed request through its status field,
// so callers must look at Task.Status. A body without a status is ErrProtocol.
func (c *Client) CreateSDDC(ctx context.Context, org string, request *models.CreateSDDCRequest) (*models.Task, error) {
	var task models.Task
	if err := c.doJSONRequest(ctx, http.MethodPost, orgPath(org, "sddcs"), request, &task); err != nil {
		return nil, fmt.Errorf("failed to create SDDC: %w", err)
	}

	if task.Status == "" {
		return nil, fmt.Errorf("failed to create SDDC: %w: response has no status", ErrProtocol)
	}

	return &task, nil
}

// DeleteSDDC submits a delete request for one SDDC and returns the deletion task.
// The returned task may be empty if the provider sent no body.
func (c *Client) DeleteSDDC(ctx context.Context, org, sddcID string) (*models.Task, error) {
	var task models.Task
	if err := c.doJSONRequest(ctx, http.MethodDelete, orgPath(org, "sddcs", sddcID), nil, &task); err != nil {
		return nil, fmt.Errorf("failed to delete SDDC %s: %w", sddcID, err)
	}

	return &task, nil
}

// GetTask fetches the current state of a task.
func (c *Client) GetTask(ctx context.Context, org, taskID string) (*models.Task, error) {
	var task models.Task
	if err := c.doJSONRequest(ctx, http.MethodGet, orgPath(org, "tasks", taskID), nil, &task); err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	if task.Status == "" {
		return nil, fmt.Errorf("failed to get task %s: %w: response has no status", taskID, ErrProtocol)
	}

	return &task, nil
}
