package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) dataSaverCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "datasaver [on|off]",
		Short:     "Show or change the data saver preference",
		Long:      "With data saver on, realtime subscriptions are closed while the client is in the background.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				enabled, err := c.store.GetDataSaver(ctx)
				if err != nil {
					return err
				}
				c.io.Printf("Data saver: %s\n", onOff(enabled))
				return nil
			}

			var enabled bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "1":
				enabled = true
			case "off", "false", "0":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			if err := c.coordinator.SetDataSaver(ctx, enabled); err != nil {
				return err
			}
			c.io.Printf("✓ Data saver %s\n", onOff(enabled))
			return nil
		},
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
