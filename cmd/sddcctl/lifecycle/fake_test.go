package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaroslav/sddcctl/models"
)

// fakeControlPlane records calls and serves canned answers.
type fakeControlPlane struct {
	mu sync.Mutex

	accounts    []models.ConnectedAccount
	accountsErr error

	sddcs    []models.SDDC
	listErr  error
	createFn func(*models.CreateSDDCRequest) (*models.Task, error)
	deleteFn func(sddcID string) (*models.Task, error)

	// statuses is consumed one per GetTask call; the last one repeats
	statuses []string
	getErr   error

	createRequests []*models.CreateSDDCRequest
	deleted        []string
	taskGets       int
}

func (f *fakeControlPlane) ListConnectedAccounts(ctx context.Context, org string) ([]models.ConnectedAccount, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeControlPlane) ListSDDCs(ctx context.Context, org string) ([]models.SDDC, error) {
	return f.sddcs, f.listErr
}

func (f *fakeControlPlane) CreateSDDC(ctx context.Context, org string, request *models.CreateSDDCRequest) (*models.Task, error) {
	f.mu.Lock()
	f.createRequests = append(f.createRequests, request)
	f.mu.Unlock()

	if f.createFn != nil {
		return f.createFn(request)
	}
	return &models.Task{ID: "task-1", Status: models.TaskStatusStarted}, nil
}

func (f *fakeControlPlane) DeleteSDDC(ctx context.Context, org, sddcID string) (*models.Task, error) {
	f.mu.Lock()
	f.deleted = append(f.deleted, sddcID)
	f.mu.Unlock()

	if f.deleteFn != nil {
		return f.deleteFn(sddcID)
	}
	return &models.Task{ID: "delete-" + sddcID, Status: models.TaskStatusStarted}, nil
}

func (f *fakeControlPlane) GetTask(ctx context.Context, org, taskID string) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.taskGets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.statuses) == 0 {
		return nil, fmt.Errorf("no status scripted for %s", taskID)
	}

	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return &models.Task{ID: taskID, Status: status, EstimatedRemainingMinutes: 90}, nil
}
