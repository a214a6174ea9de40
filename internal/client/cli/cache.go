package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/missionflow/internal/models"
)

func (c *Cli) cacheCommand() *cobra.Command {
	names := make([]string, 0, len(models.EntityKinds))
	for _, k := range models.EntityKinds {
		names = append(names, string(k))
	}

	cmd := &cobra.Command{
		Use:       "cache [kind]",
		Short:     "Show cached rows (" + strings.Join(names, ", ") + ")",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				c.io.Println("=== Local cache ===")
				c.io.Println()
				for _, kind := range models.EntityKinds {
					rows, err := c.dataService.Cached(ctx, kind)
					if err != nil {
						return err
					}
					c.io.Printf("%-20s %d\n", kind, len(rows))
				}
				return nil
			}

			kind := models.EntityKind(args[0])
			rows, err := c.dataService.Cached(ctx, kind)
			if err != nil {
				return fmt.Errorf("failed to read cache: %w", err)
			}
			if len(rows) == 0 {
				c.io.Printf("No cached %s\n", kind)
				return nil
			}
			for _, row := range rows {
				c.io.Println(describeEntity(row))
			}
			return nil
		},
	}
	cmd.AddCommand(c.cacheRefreshCommand())
	return cmd
}

func (c *Cli) cacheRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the cache from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireActor(ctx); err != nil {
				return err
			}
			if err := c.syncService.RefreshCache(ctx, c.actorID); err != nil {
				return fmt.Errorf("failed to refresh cache: %w", err)
			}
			c.io.Println("✓ Local cache refreshed")
			return nil
		},
	}
}

// describeEntity однострочное описание строки кеша
func describeEntity(e models.CachedEntity) string {
	switch v := e.(type) {
	case models.CachedTask:
		due := "no due date"
		if v.DueDate != nil {
			due = "due " + v.DueDate.Local().Format(timeLayout)
		}
		return fmt.Sprintf("%s  %-12s %s (%s)", v.ID, v.Status, v.Title, due)
	case models.CachedDocument:
		return fmt.Sprintf("%s  %s %d bytes", v.ID, v.Name, v.Size)
	case models.CachedMessage:
		mark := " "
		if !v.Read {
			mark = "*"
		}
		return fmt.Sprintf("%s %s from %s: %s", mark, v.ID, v.SenderID, v.Content)
	case models.CachedTimesheet:
		return fmt.Sprintf("%s  %s %s %s", v.ID, v.Date.Format("2006-01-02"), formatHours(v.Hours), v.Status)
	case models.CachedNotification:
		mark := " "
		if !v.Read {
			mark = "*"
		}
		return fmt.Sprintf("%s %s [%s] %s", mark, v.ID, v.Type, v.Title)
	}
	return e.EntityID()
}
