// Package models provides the wire data structures for the CSP and VMC APIs.
//
// The same types are used by the client SDK, the lifecycle commands and the
// control-plane simulator, so the request the CLI builds is exactly what the
// simulator decodes.
//
// The models in this package represent:
//   - ConnectedAccounts: pre-linked cloud accounts an SDDC is deployed into
//   - SDDCs: provisioned software-defined datacenters
//   - Tasks: asynchronous operations started by create and delete calls
//   - Tokens: the CSP access token returned by the refresh-token exchange
//
// All structs use the snake_case JSON names of the VMC API.
package models
