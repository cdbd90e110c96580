// Package logging provides structured logging utilities for sddcctl.
package logging

// Standard field names for consistent logging across the application.
const (
	// FieldOrgID is the organization every VMC call is scoped to.
	FieldOrgID = "org_id"

	// FieldSDDCID is the identifier of an SDDC.
	FieldSDDCID = "sddc_id"

	// FieldSDDCName is the display name of an SDDC.
	FieldSDDCName = "sddc_name"

	// FieldTaskID is the identifier of an asynchronous task.
	FieldTaskID = "task_id"

	// FieldTaskStatus is the last observed task status.
	FieldTaskStatus = "task_status"

	// FieldAccountID is the connected account identifier.
	FieldAccountID = "connected_account_id"

	// FieldRequestID is a unique identifier for each HTTP request.
	FieldRequestID = "request_id"

	// FieldMethod is the HTTP method of a request.
	FieldMethod = "method"

	// FieldPath is the URL path of an HTTP request.
	FieldPath = "path"

	// FieldStatusCode is the HTTP status code of a response.
	FieldStatusCode = "status_code"

	// FieldDuration is the duration of an operation in milliseconds.
	FieldDuration = "duration_ms"

	// FieldComponent identifies the component generating the log.
	FieldComponent = "component"
)
