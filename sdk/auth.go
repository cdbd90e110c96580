package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yaroslav/sddcctl/models"
)

// Header constants matching the CSP and VMC API expectations.
const (
	// HeaderAuthToken carries the CSP access token on every VMC call.
	HeaderAuthToken = "csp-auth-token"

	// HeaderRequestID carries a per-request UUID for tracing.
	HeaderRequestID = "X-Request-Id"
)

// AuthorizePath is the CSP refresh-token exchange endpoint.
const AuthorizePath = "/csp/gateway/am/api/auth/api-tokens/authorize"

// Authorize exchanges the configured refresh token for an access token.
// The token is kept on the client and sent with every later request.
// It is fetched once per call; nothing is cached or persisted.
//
// Every failure, including transport errors, wraps ErrAuthentication.
func (c *Client) Authorize(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.refreshToken) == "" {
		return "", fmt.Errorf("%w: refresh token is empty", ErrAuthentication)
	}

	form := url.Values{}
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.CSPURL+AuthorizePath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	defer drainAndCloseBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, c.parseErrorResponse(req, resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read token response: %w", ErrAuthentication, err)
	}

	var token models.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: failed to parse token response: %w", ErrAuthentication, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", ErrAuthentication)
	}

	c.accessToken = token.AccessToken
	return token.AccessToken, nil
}

// addAuthHeaders adds the access token header to a VMC request.
// Returns ErrAuthentication if Authorize has not succeeded yet.
func (c *Client) addAuthHeaders(req *http.Request) error {
	if c.accessToken == "" {
		return fmt.Errorf("%w: no access token, call Authorize first", ErrAuthentication)
	}
	req.Header.Set(HeaderAuthToken, c.accessToken)
	return nil
}
