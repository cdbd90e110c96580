package sdk

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default endpoints of the public VMware Cloud services.
const (
	DefaultCSPURL = "https://console.cloud.vmware.com"
	DefaultVMCURL = "https://vmc.vmware.com"
)

// ClientConfig contains the configuration for creating a new SDK client.
type ClientConfig struct {
	// CSPURL is the base URL of the Cloud Services Platform (token exchange).
	// Default: https://console.cloud.vmware.com
	CSPURL string

	// VMCURL is the base URL of the VMC API.
	// Default: https://vmc.vmware.com
	VMCURL string

	// RefreshToken is the long-lived API token exchanged for an access token.
	RefreshToken string

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a client with Timeout is created.
	HTTPClient *http.Client

	// Timeout is the HTTP request timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// RequestsPerSecond caps the outgoing request rate.
	// Default: 5. Negative disables the limiter.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	// Default: 1
	Burst int

	// Logger receives debug logs for every request.
	// Optional: defaults to a no-op logger.
	Logger *zap.Logger
}

// Validate checks if the client configuration is valid and sets defaults.
func (c *ClientConfig) Validate() error {
	if strings.TrimSpace(c.CSPURL) == "" {
		c.CSPURL = DefaultCSPURL
	}
	if strings.TrimSpace(c.VMCURL) == "" {
		c.VMCURL = DefaultVMCURL
	}

	for name, url := range map[string]*string{"csp": &c.CSPURL, "vmc": &c.VMCURL} {
		*url = strings.TrimSuffix(strings.TrimSpace(*url), "/")
		if !strings.HasPrefix(*url, "http://") && !strings.HasPrefix(*url, "https://") {
			return fmt.Errorf("%w: %s URL must start with http:// or https://", ErrInvalidConfig, name)
		}
	}

	if strings.TrimSpace(c.RefreshToken) == "" {
		return fmt.Errorf("%w: refresh token is required", ErrInvalidConfig)
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	return nil
}
