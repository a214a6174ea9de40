package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send pending actions and refresh the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.authenticate(ctx); err != nil {
				return err
			}

			c.io.Println("=== Synchronization ===")
			c.io.Println()

			if !c.probe(ctx) {
				pending, err := c.store.PendingCount(ctx)
				if err != nil {
					return err
				}
				c.io.Printf("⚠️  Backend unreachable, %d action(s) stay queued\n", pending)
				return nil
			}

			result, err := c.syncService.Sync(ctx, c.actorID)
			if err != nil {
				return fmt.Errorf("synchronization failed: %w", err)
			}

			if result.Skipped {
				c.io.Println("✓ Nothing to send")
			} else {
				c.io.Printf("✓ %s\n", result.Summary())
			}
			if result.CacheRefreshed {
				c.io.Println("✓ Local cache refreshed")
			}

			failed, err := c.store.FailedCount(ctx)
			if err != nil {
				return err
			}
			if failed > 0 {
				c.io.Println()
				c.io.Printf("⚠️  %d failed action(s). Run 'missionflow queue list --failed' to inspect.\n", failed)
			}
			return nil
		},
	}
}
