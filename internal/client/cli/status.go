package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection, session and queue status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.authenticate(ctx); err != nil {
				return err
			}

			view := statusView{
				Server: c.serverURL,
				Actor:  c.actorID,
				Online: c.probe(ctx),
			}

			var err error
			if view.Pending, err = c.store.PendingCount(ctx); err != nil {
				return fmt.Errorf("failed to count pending actions: %w", err)
			}
			if view.Failed, err = c.store.FailedCount(ctx); err != nil {
				return fmt.Errorf("failed to count failed actions: %w", err)
			}
			if view.LastSync, err = c.store.GetLastSync(ctx); err != nil {
				return err
			}
			if view.DataSaver, err = c.store.GetDataSaver(ctx); err != nil {
				return err
			}

			if err := statusTmpl.Execute(c.io, view); err != nil {
				return fmt.Errorf("failed to render status: %w", err)
			}
			if view.Pending > 0 {
				c.io.Println()
				c.io.Println("Run 'missionflow sync' to send pending actions.")
			}
			return nil
		},
	}
}
