package models

// TokenResponse is the body returned by the CSP api-tokens/authorize endpoint.
type TokenResponse struct {
	// AccessToken is the short-lived bearer token sent as csp-auth-token
	AccessToken string `json:"access_token"`

	// TokenType is normally "bearer"
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int `json:"expires_in,omitempty"`

	// Scope lists the granted scopes
	Scope string `json:"scope,omitempty"`
}
