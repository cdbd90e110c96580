package models

// Task status values reported by the VMC API.
const (
	TaskStatusStarted   = "STARTED"
	TaskStatusCanceling = "CANCELING"
	TaskStatusFinished  = "FINISHED"
	TaskStatusFailed    = "FAILED"
	TaskStatusCanceled  = "CANCELED"

	// TaskStatusCanceledLegacy is the spelling older API versions return.
	TaskStatusCanceledLegacy = "STATUS_CANCELED"
)

// Task types started by SDDC calls.
const (
	TaskTypeProvision = "SDDC-PROVISION"
	TaskTypeDelete    = "SDDC-DELETE"
)

// Task is an asynchronous operation started by an SDDC create or delete call.
// A task is immutable once its status is terminal.
type Task struct {
	// ID is the task identifier used with GET /tasks/{id}
	ID string `json:"id"`

	// Status is the current task status (see TaskStatus* constants)
	Status string `json:"status"`

	// SubStatus is a provider-specific refinement of Status
	SubStatus string `json:"sub_status,omitempty"`

	// TaskType is the operation kind (e.g., "SDDC-PROVISION", "SDDC-DELETE")
	TaskType string `json:"task_type,omitempty"`

	// ResourceID is the SDDC the task operates on
	ResourceID string `json:"resource_id,omitempty"`

	// ResourceType is the kind of resource (normally "sddc")
	ResourceType string `json:"resource_type,omitempty"`

	// OrgID is the owning organization
	OrgID string `json:"org_id,omitempty"`

	// EstimatedRemainingMinutes is the provider's estimate until completion
	EstimatedRemainingMinutes int `json:"estimated_remaining_minutes"`

	// ProgressPercent is the completion percentage (0-100)
	ProgressPercent int `json:"progress_percent,omitempty"`

	// ErrorMessage is set when the task failed
	ErrorMessage string `json:"error_message,omitempty"`

	// StartTime is the RFC 3339 start timestamp
	StartTime string `json:"start_time,omitempty"`

	// EndTime is the RFC 3339 end timestamp, set once terminal
	EndTime string `json:"end_time,omitempty"`
}

// IsTerminal reports whether the task reached FINISHED, FAILED or CANCELED.
func (t *Task) IsTerminal() bool {
	switch t.Status {
	case TaskStatusFinished, TaskStatusFailed, TaskStatusCanceled, TaskStatusCanceledLegacy:
		return true
	}
	return false
}
