package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/models"
)

// Manager creates and removes SDDCs in an organization.
type Manager struct {
	// client is the authorized control-plane client
	client ControlPlane

	// logger is the structured logger for lifecycle operations
	logger *zap.Logger

	// matchName restricts Remove to SDDCs whose name equals the given name
	matchName bool
}

// ManagerConfig holds configuration for the Manager.
type ManagerConfig struct {
	// Client is an authorized control-plane client
	Client ControlPlane

	// Logger is the structured logger (optional, no-op if nil)
	Logger *zap.Logger

	// MatchName makes Remove delete only SDDCs named exactly like its name
	// argument. When false, Remove deletes every SDDC in the organization.
	MatchName bool
}

// NewManager creates a new lifecycle manager.
func NewManager(config ManagerConfig) *Manager {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		client:    config.Client,
		logger:    logger,
		matchName: config.MatchName,
	}
}

// Create provisions a new SDDC from spec in org and returns the provisioning task.
//
// The spec is validated before any request is sent. The connected account is
// looked up first and linked into the request. The returned task status is what
// the provider reported; a 2xx answer may still carry a FAILED status.
func (m *Manager) Create(ctx context.Context, org string, spec models.InstanceSpec) (*models.Task, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	accountID, err := m.LookupConnectedAccount(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to look up connected account: %w", err)
	}

	logger := m.logger.With(
		zap.String(logging.FieldOrgID, org),
		zap.String(logging.FieldSDDCName, spec.Name),
	)
	logger.Info("Creating SDDC",
		zap.String(logging.FieldAccountID, accountID),
		zap.String("provider", spec.Provider),
		zap.String("region", spec.Region),
		zap.Int("num_hosts", spec.NumHosts),
	)

	task, err := m.client.CreateSDDC(ctx, org, models.NewCreateSDDCRequest(spec, accountID))
	if err != nil {
		return nil, err
	}

	logger.Info("SDDC create submitted",
		zap.String(logging.FieldTaskID, task.ID),
		zap.String(logging.FieldTaskStatus, task.Status),
	)

	return task, nil
}

// Deletion records one SDDC delete request that the provider accepted.
type Deletion struct {
	SDDC models.SDDC
	Task *models.Task
}

// DeletionFailure records one SDDC whose delete request failed.
type DeletionFailure struct {
	SDDC models.SDDC
	Err  error
}

// RemoveResult is the outcome of a best-effort bulk delete.
type RemoveResult struct {
	Deleted []Deletion
	Failed  []DeletionFailure
}

// Err joins the per-SDDC failures, or returns nil when every delete succeeded.
func (r *RemoveResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}

	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("SDDC %s (%s): %w", f.SDDC.Name, f.SDDC.DeletionID(), f.Err))
	}
	return errors.Join(errs...)
}

// Remove deletes SDDCs in org.
//
// The list call has no name filter. Unless the manager was built with MatchName,
// every listed SDDC is deleted regardless of name. Each delete is independent: a
// failure is recorded and the loop moves on. The returned error is non-nil when
// the list failed or at least one delete failed; the result is returned in the
// latter case too.
func (m *Manager) Remove(ctx context.Context, org, name string) (*RemoveResult, error) {
	sddcs, err := m.client.ListSDDCs(ctx, org)
	if err != nil {
		return nil, err
	}

	logger := m.logger.With(zap.String(logging.FieldOrgID, org))
	if !m.matchName {
		logger.Warn("Removing every SDDC in the organization, the name is not used as a filter",
			zap.String(logging.FieldSDDCName, name),
			zap.Int("count", len(sddcs)),
		)
	}

	result := &RemoveResult{}
	for _, sddc := range sddcs {
		if m.matchName && sddc.Name != name {
			continue
		}

		sddcID := sddc.DeletionID()
		logger.Info("Found and removing SDDC",
			zap.String(logging.FieldSDDCName, sddc.Name),
			zap.String(logging.FieldSDDCID, sddcID),
		)

		task, err := m.client.DeleteSDDC(ctx, org, sddcID)
		if err != nil {
			logger.Error("Failed to remove SDDC",
				zap.String(logging.FieldSDDCID, sddcID),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, DeletionFailure{SDDC: sddc, Err: err})
			continue
		}

		result.Deleted = append(result.Deleted, Deletion{SDDC: sddc, Task: task})
	}

	if m.matchName && len(result.Deleted) == 0 && len(result.Failed) == 0 {
		logger.Warn("No SDDC matched the name", zap.String(logging.FieldSDDCName, name))
	}

	return result, result.Err()
}
