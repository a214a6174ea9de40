package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iudanet/missionflow/internal/client/iocli"
	"github.com/iudanet/missionflow/internal/models"
)

func (c *Cli) queueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the offline action queue",
	}
	cmd.AddCommand(c.queueListCommand(), c.queueRetryCommand(), c.queuePurgeCommand())
	return cmd
}

func (c *Cli) queueListCommand() *cobra.Command {
	var failed, all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			statuses := []models.ActionStatus{models.StatusPending, models.StatusProcessing}
			switch {
			case failed:
				statuses = []models.ActionStatus{models.StatusError}
			case all:
				statuses = []models.ActionStatus{models.StatusPending, models.StatusProcessing, models.StatusError, models.StatusDone}
			}

			actions, err := c.store.ListActions(ctx, statuses...)
			if err != nil {
				return fmt.Errorf("failed to list actions: %w", err)
			}
			if len(actions) == 0 {
				c.io.Println("Queue is empty")
				return nil
			}

			for _, a := range actions {
				view := actionView{
					ID:         a.ID,
					Timestamp:  a.Timestamp,
					Operation:  string(a.Operation),
					Collection: a.Collection,
					TargetID:   a.TargetID(),
					Status:     string(a.Status),
					Error:      a.Error,
					Attempts:   a.Attempts,
				}
				if err := actionTmpl.Execute(c.io, view); err != nil {
					return fmt.Errorf("failed to render action: %w", err)
				}
			}
			c.io.Println()
			c.io.Printf("Total: %d\n", len(actions))
			return nil
		},
	}
	cmd.Flags().BoolVar(&failed, "failed", false, "Show only failed actions")
	cmd.Flags().BoolVar(&all, "all", false, "Include completed actions")
	return cmd
}

func (c *Cli) queueRetryCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "retry [id]",
		Short: "Return failed actions to the pending queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if all || len(args) == 0 {
				n, err := c.store.RetryFailed(ctx)
				if err != nil {
					return fmt.Errorf("failed to retry actions: %w", err)
				}
				c.io.Printf("✓ %d action(s) returned to the queue\n", n)
				return nil
			}

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid action id %q", args[0])
			}
			if err := c.store.RetryAction(ctx, id); err != nil {
				return fmt.Errorf("failed to retry action %d: %w", id, err)
			}
			c.io.Printf("✓ Action #%d returned to the queue\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Retry every failed action")
	return cmd
}

func (c *Cli) queuePurgeCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge-failed",
		Short: "Delete failed actions permanently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			failed, err := c.store.FailedCount(ctx)
			if err != nil {
				return err
			}
			if failed == 0 {
				c.io.Println("No failed actions")
				return nil
			}

			if !yes {
				ok, err := iocli.Confirm(c.io, fmt.Sprintf("Delete %d failed action(s)?", failed))
				if err != nil {
					return err
				}
				if !ok {
					c.io.Println("Cancelled")
					return nil
				}
			}

			n, err := c.store.PurgeFailed(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge actions: %w", err)
			}
			c.io.Printf("✓ %d failed action(s) deleted\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
