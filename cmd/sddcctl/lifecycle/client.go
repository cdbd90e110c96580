package lifecycle

import (
	"context"

	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

// ControlPlane is the subset of the VMC API the lifecycle commands use.
// *sdk.Client implements it.
type ControlPlane interface {
	ListConnectedAccounts(ctx context.Context, org string) ([]models.ConnectedAccount, error)
	ListSDDCs(ctx context.Context, org string) ([]models.SDDC, error)
	CreateSDDC(ctx context.Context, org string, request *models.CreateSDDCRequest) (*models.Task, error)
	DeleteSDDC(ctx context.Context, org, sddcID string) (*models.Task, error)
	TaskGetter
}

// TaskGetter fetches a task by id. It is all the Poller needs.
type TaskGetter interface {
	GetTask(ctx context.Context, org, taskID string) (*models.Task, error)
}

var _ ControlPlane = (*sdk.Client)(nil)
