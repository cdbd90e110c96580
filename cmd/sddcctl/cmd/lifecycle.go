package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/cmd/sddcctl/lifecycle"
	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

// parseRemove reads --remove. An unset flag means create. A set flag must be
// true: a false value is rejected so that it never falls through to a create.
func parseRemove(value string, set bool) (bool, error) {
	if !set {
		return false, nil
	}
	remove, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: --remove %q is not a boolean", sdk.ErrInvalidConfig, value)
	}
	if !remove {
		return false, fmt.Errorf("%w: --remove %q does nothing, omit --remove to create", sdk.ErrInvalidConfig, value)
	}
	return true, nil
}

func (a *app) instanceSpec() models.InstanceSpec {
	return models.InstanceSpec{
		Name:           a.v.GetString("name"),
		CIDR:           a.v.GetString("cidr"),
		Provider:       a.v.GetString("provider"),
		SubnetID:       a.v.GetString("subnet_id"),
		Region:         a.v.GetString("region"),
		NumHosts:       a.v.GetInt("numhost"),
		NetworkSegment: a.v.GetString("networksegment"),
	}
}

// runLifecycle is the root command: create by default, remove with --remove.
func (a *app) runLifecycle(cmd *cobra.Command, args []string) error {
	// --remove and --match-name are destructive, so only the command line
	// can set them, never the environment or the config file.
	flags := cmd.Flags()
	removeValue, _ := flags.GetString("remove")
	remove, err := parseRemove(removeValue, flags.Changed("remove"))
	if err != nil {
		return err
	}
	matchName, _ := flags.GetBool("match-name")
	if err := a.requireSession(); err != nil {
		return err
	}
	p, err := newPrinter(cmd.OutOrStdout(), a.v.GetString("output"))
	if err != nil {
		return err
	}

	spec := a.instanceSpec()
	if !remove {
		// Fail on a bad spec before spending a token exchange.
		if err := spec.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()

	client, err := a.newClient(ctx)
	if err != nil {
		return err
	}

	manager := lifecycle.NewManager(lifecycle.ManagerConfig{
		Client:    client,
		Logger:    a.logger,
		MatchName: matchName,
	})

	if remove {
		return a.runRemove(ctx, client, manager, p, spec.Name)
	}
	return a.runCreate(ctx, client, manager, p, spec)
}

func (a *app) runCreate(ctx context.Context, client lifecycle.TaskGetter, manager *lifecycle.Manager, p *printer, spec models.InstanceSpec) error {
	org := a.v.GetString("org")

	task, err := manager.Create(ctx, org, spec)
	if err != nil {
		return err
	}
	p.textf("%s %s", spec.Name, task.Status)

	out := createOutput{Name: spec.Name, Task: task}

	taskErr := terminalTaskError(task)
	if taskErr != nil {
		p.textf("Task %s %s: %s", task.ID, task.Status, task.ErrorMessage)
	} else if a.v.GetBool("wait") && !task.IsTerminal() {
		out.FinalTask, taskErr = a.waitTask(ctx, client, p, org, task.ID)
	}

	if err := p.document(out); err != nil {
		return err
	}
	return taskErr
}

// terminalTaskError maps a task that the create call already reported as
// FAILED or CANCELED to an error. It returns nil for any other status.
func terminalTaskError(task *models.Task) error {
	switch lifecycle.StateOf(task.Status) {
	case lifecycle.StateFailed:
		return fmt.Errorf("%w: %w: task %s: %s", sdk.ErrProvider, lifecycle.ErrTaskFailed, task.ID, task.ErrorMessage)
	case lifecycle.StateCanceled:
		return fmt.Errorf("%w: %w: task %s: %s", sdk.ErrProvider, lifecycle.ErrTaskCanceled, task.ID, task.ErrorMessage)
	}
	return nil
}

func (a *app) runRemove(ctx context.Context, client lifecycle.TaskGetter, manager *lifecycle.Manager, p *printer, name string) error {
	org := a.v.GetString("org")

	result, err := manager.Remove(ctx, org, name)
	if result == nil {
		return err
	}

	out := removeOutput{Removed: []removedSDDC{}}
	for _, d := range result.Deleted {
		p.textf("Found and removing SDDC: %s - %s", d.SDDC.Name, d.SDDC.DeletionID())
		out.Removed = append(out.Removed, removedSDDC{Name: d.SDDC.Name, SDDCID: d.SDDC.DeletionID(), Task: d.Task})
	}
	for _, f := range result.Failed {
		p.textf("Found and removing SDDC: %s - %s", f.SDDC.Name, f.SDDC.DeletionID())
		out.Failed = append(out.Failed, removedSDDC{Name: f.SDDC.Name, SDDCID: f.SDDC.DeletionID(), Error: f.Err.Error()})
	}

	errs := []error{err}
	if a.v.GetBool("wait") {
		for i := range out.Removed {
			task := out.Removed[i].Task
			if task == nil || task.ID == "" || task.IsTerminal() {
				continue
			}
			final, waitErr := a.waitTask(ctx, client, p, org, task.ID)
			out.Removed[i].FinalTask = final
			if waitErr != nil {
				errs = append(errs, waitErr)
				if ctx.Err() != nil {
					break
				}
			}
		}
	}

	if err := p.document(out); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// waitTask polls taskID and reports progress in text mode.
func (a *app) waitTask(ctx context.Context, client lifecycle.TaskGetter, p *printer, org, taskID string) (*models.Task, error) {
	interval := a.v.GetDuration("interval")
	poller := lifecycle.NewPoller(lifecycle.PollerConfig{
		Client:   client,
		Logger:   a.logger,
		Interval: interval,
		OnPending: func(task *models.Task) {
			p.textf("Estimated time remaining: %d minutes", task.EstimatedRemainingMinutes)
		},
	})

	p.textf("Wait for task %s to finish", taskID)
	p.textf("Checking task status every %s", interval)

	task, err := poller.Wait(ctx, org, taskID)
	switch {
	case err == nil:
		p.textf("Task %s finished successfully", taskID)
	case errors.Is(err, lifecycle.ErrTaskFailed):
		p.textf("Task %s failed", taskID)
	case errors.Is(err, lifecycle.ErrTaskCanceled):
		p.textf("Task %s cancelled", taskID)
	default:
		logging.FromContext(ctx).Error("Stopped waiting for task",
			zap.String(logging.FieldTaskID, taskID),
			zap.Error(err),
		)
	}

	return task, err
}
